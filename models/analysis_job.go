package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisJobStatus represents the status of an analysis job
type AnalysisJobStatus string

const (
	JobStatusPending    AnalysisJobStatus = "pending"
	JobStatusInProgress AnalysisJobStatus = "in_progress"
	JobStatusCompleted  AnalysisJobStatus = "completed"
	JobStatusFailed     AnalysisJobStatus = "failed"
)

// Step statuses
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
	StepFailed     = "failed"
)

// AnalysisStep represents a step in the analysis pipeline
type AnalysisStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// AnalysisSteps is stored as JSONB
type AnalysisSteps []AnalysisStep

// Value implements driver.Valuer for JSONB
func (s AnalysisSteps) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *AnalysisSteps) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	}

	if len(data) == 0 {
		*s = make(AnalysisSteps, 0)
		return nil
	}
	return json.Unmarshal(data, s)
}

// Find returns the index of the named step or -1.
func (s AnalysisSteps) Find(name string) int {
	for i := range s {
		if s[i].Name == name {
			return i
		}
	}
	return -1
}

// AnalysisJob tracks the background analysis of one document
type AnalysisJob struct {
	ID           uuid.UUID         `json:"id"`
	DocumentID   uuid.UUID         `json:"document_id"`
	Status       AnalysisJobStatus `json:"status"`
	CurrentStep  *string           `json:"current_step,omitempty"`
	Steps        AnalysisSteps     `json:"steps"`
	Summary      *string           `json:"summary,omitempty"`
	UsedModel    bool              `json:"used_model"`
	ModelOutcome *string           `json:"model_outcome,omitempty"`
	RedFlags     []string          `json:"red_flags"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// AnalysisResult is what a finished job stores
type AnalysisResult struct {
	Summary      string
	UsedModel    bool
	ModelOutcome string
	RedFlags     []string
}
