package repository

import (
	"context"
	"time"

	"clario-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisJobRepository handles database operations for analysis jobs
type AnalysisJobRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db *pgxpool.Pool) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

const analysisJobColumns = `
	id, document_id, status, current_step, steps, summary, used_model,
	model_outcome, red_flags, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysisJob(row rowScanner) (*models.AnalysisJob, error) {
	job := &models.AnalysisJob{}
	err := row.Scan(
		&job.ID,
		&job.DocumentID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.Summary,
		&job.UsedModel,
		&job.ModelOutcome,
		&job.RedFlags,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if job.Steps == nil {
		job.Steps = make(models.AnalysisSteps, 0)
	}
	if job.RedFlags == nil {
		job.RedFlags = []string{}
	}
	return job, nil
}

// Create creates a new analysis job
func (r *AnalysisJobRepository) Create(ctx context.Context, job *models.AnalysisJob) error {
	query := `
		INSERT INTO analysis_jobs (
			id, document_id, status, current_step, steps
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	return r.db.QueryRow(
		ctx, query,
		job.ID,
		job.DocumentID,
		job.Status,
		job.CurrentStep,
		job.Steps,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

// GetByID retrieves an analysis job by ID
func (r *AnalysisJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisJob, error) {
	query := `SELECT` + analysisJobColumns + `
		FROM analysis_jobs
		WHERE id = $1`

	return scanAnalysisJob(r.db.QueryRow(ctx, query, id))
}

// GetLatestByDocumentID retrieves the newest analysis job for a document
func (r *AnalysisJobRepository) GetLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.AnalysisJob, error) {
	query := `SELECT` + analysisJobColumns + `
		FROM analysis_jobs
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	return scanAnalysisJob(r.db.QueryRow(ctx, query, documentID))
}

// UpdateStatus updates the status of an analysis job
func (r *AnalysisJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnalysisJobStatus) error {
	query := `
		UPDATE analysis_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress records the current step and the step list
func (r *AnalysisJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error {
	query := `
		UPDATE analysis_jobs SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete stores the result and marks the job as completed
func (r *AnalysisJobRepository) Complete(ctx context.Context, id uuid.UUID, result models.AnalysisResult) error {
	now := time.Now()
	query := `
		UPDATE analysis_jobs SET
			status = $2,
			summary = $3,
			used_model = $4,
			model_outcome = $5,
			red_flags = $6,
			completed_at = $7,
			updated_at = $7
		WHERE id = $1`

	redFlags := result.RedFlags
	if redFlags == nil {
		redFlags = []string{}
	}

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted,
		result.Summary, result.UsedModel, result.ModelOutcome, redFlags, now)
	return err
}

// Fail marks an analysis job as failed
func (r *AnalysisJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE analysis_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}
