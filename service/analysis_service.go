package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"clario-backend/generator"
	"clario-backend/models"
	"clario-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore reads document records
type DocumentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// AnalysisJobStore persists analysis jobs
type AnalysisJobStore interface {
	Create(ctx context.Context, job *models.AnalysisJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnalysisJobStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error
	Complete(ctx context.Context, id uuid.UUID, result models.AnalysisResult) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// Analysis step names, in execution order
const (
	StepChunking      = "Chunking Document"
	StepExtracting    = "Extracting Key Sentences"
	StepRewriting     = "Rewriting in Plain Language"
	StepNormalizing   = "Normalizing Terminology"
	StepDetectingRisk = "Detecting Red Flags"
)

var analysisSteps = []models.AnalysisStep{
	{Name: StepChunking, Description: "Split the document into groups of sentences"},
	{Name: StepExtracting, Description: "Pick the most representative sentences of each group"},
	{Name: StepRewriting, Description: "Ask the language model for a plain-language version"},
	{Name: StepNormalizing, Description: "Replace legal jargon with everyday words"},
	{Name: StepDetectingRisk, Description: "Look for clauses that commonly hurt the signer"},
}

// MaxDocumentBytes caps the size of a document that can be analyzed
const MaxDocumentBytes = 10 << 20

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrJobNotFound       = errors.New("analysis job not found")
	ErrEmptyDocument     = errors.New("document has no text")
	ErrNotPlainText      = errors.New("document is not valid UTF-8 text")
	ErrJobCreationFailed = errors.New("failed to create analysis job")
)

// AnalysisService runs document analyses as background jobs
type AnalysisService struct {
	documents DocumentStore
	jobs      AnalysisJobStore
	storage   storage.Storage
	summaries *SummaryService
	logger    *zap.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithDocumentStore sets the document store
func AnalysisWithDocumentStore(store DocumentStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.documents = store
	}
}

// AnalysisWithJobStore sets the analysis job store
func AnalysisWithJobStore(store AnalysisJobStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.jobs = store
	}
}

// AnalysisWithStorage sets the document storage
func AnalysisWithStorage(st storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.storage = st
	}
}

// AnalysisWithSummaryService sets the summary pipeline
func AnalysisWithSummaryService(summaries *SummaryService) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.summaries = summaries
	}
}

// AnalysisWithLogger sets the logger
func AnalysisWithLogger(logger *zap.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = logger
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.summaries == nil {
		s.summaries = NewSummaryService()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// StartAnalysisRequest represents a request to analyze a document
type StartAnalysisRequest struct {
	DocumentID uuid.UUID
}

// StartAnalysisResult represents the created job
type StartAnalysisResult struct {
	JobID uuid.UUID
}

// GetJobRequest represents a request for job status
type GetJobRequest struct {
	JobID uuid.UUID
}

// GetJobResult represents the current state of a job
type GetJobResult struct {
	Job *models.AnalysisJob
}

func (s *AnalysisService) ready() error {
	if s.documents == nil {
		return errors.New("document store not set")
	}
	if s.jobs == nil {
		return errors.New("analysis job store not set")
	}
	if s.storage == nil {
		return errors.New("document storage not set")
	}
	return nil
}

// StartAnalysis creates a pending job and returns immediately. The caller
// runs ProcessAnalysis in the background.
func (s *AnalysisService) StartAnalysis(ctx context.Context, req StartAnalysisRequest) (*StartAnalysisResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	if _, err := s.documents.GetByID(ctx, req.DocumentID); err != nil {
		return nil, ErrDocumentNotFound
	}

	steps := make(models.AnalysisSteps, len(analysisSteps))
	copy(steps, analysisSteps)
	for i := range steps {
		steps[i].Status = models.StepPending
	}

	job := &models.AnalysisJob{
		ID:         uuid.New(),
		DocumentID: req.DocumentID,
		Status:     models.JobStatusPending,
		Steps:      steps,
		RedFlags:   []string{},
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error("failed to create analysis job", zap.Stringer("document_id", req.DocumentID), zap.Error(err))
		return nil, ErrJobCreationFailed
	}

	return &StartAnalysisResult{JobID: job.ID}, nil
}

// GetJob retrieves a job for polling
func (s *AnalysisService) GetJob(ctx context.Context, req GetJobRequest) (*GetJobResult, error) {
	if s.jobs == nil {
		return nil, errors.New("analysis job store not set")
	}

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	return &GetJobResult{Job: job}, nil
}

// ProcessAnalysis performs the analysis. Failures are recorded on the job
// and also returned.
func (s *AnalysisService) ProcessAnalysis(ctx context.Context, jobID uuid.UUID) error {
	if err := s.ready(); err != nil {
		return err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}
	logger := s.logger.With(zap.Stringer("job_id", jobID), zap.Stringer("document_id", job.DocumentID))

	text, err := s.loadText(ctx, job.DocumentID)
	if err != nil {
		s.markJobFailed(ctx, logger, jobID, err.Error())
		return err
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	p := &jobProgress{service: s, jobID: jobID, steps: job.Steps}

	var chunks [][]string
	if err := p.run(ctx, StepChunking, func() { chunks = s.summaries.Chunk(ctx, text) }); err != nil {
		s.markJobFailed(ctx, logger, jobID, "failed to update step: "+err.Error())
		return err
	}

	var draft string
	if err := p.run(ctx, StepExtracting, func() { draft = s.summaries.Extract(ctx, chunks) }); err != nil {
		s.markJobFailed(ctx, logger, jobID, "failed to update step: "+err.Error())
		return err
	}

	var outcome generator.Outcome
	if err := p.run(ctx, StepRewriting, func() { outcome = s.summaries.Rewrite(ctx, draft) }); err != nil {
		s.markJobFailed(ctx, logger, jobID, "failed to update step: "+err.Error())
		return err
	}

	var summary string
	if err := p.run(ctx, StepNormalizing, func() { summary = s.summaries.Finalize(ctx, draft, outcome) }); err != nil {
		s.markJobFailed(ctx, logger, jobID, "failed to update step: "+err.Error())
		return err
	}

	var redFlags []string
	if err := p.run(ctx, StepDetectingRisk, func() { redFlags, _ = s.summaries.RedFlags(text) }); err != nil {
		s.markJobFailed(ctx, logger, jobID, "failed to update step: "+err.Error())
		return err
	}

	err = s.jobs.Complete(ctx, jobID, models.AnalysisResult{
		Summary:      summary,
		UsedModel:    outcome.Accepted(),
		ModelOutcome: string(outcome.Status),
		RedFlags:     redFlags,
	})
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	logger.Info("analysis completed",
		zap.Int("chunks", len(chunks)),
		zap.String("outcome", string(outcome.Status)),
		zap.Int("red_flags", len(redFlags)))
	return nil
}

// loadText downloads the document and checks that it holds usable text
func (s *AnalysisService) loadText(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return "", ErrDocumentNotFound
	}

	rc, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("failed to download document: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentBytes {
		return "", fmt.Errorf("document exceeds %d bytes", MaxDocumentBytes)
	}
	if !utf8.Valid(data) {
		return "", ErrNotPlainText
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// markJobFailed records the failure; a store error here is only logged
func (s *AnalysisService) markJobFailed(ctx context.Context, logger *zap.Logger, jobID uuid.UUID, message string) {
	logger.Warn("analysis failed", zap.String("reason", message))
	if err := s.jobs.Fail(ctx, jobID, message); err != nil {
		logger.Error("failed to mark analysis job as failed", zap.Error(err))
	}
}

// jobProgress mirrors step transitions into the job store
type jobProgress struct {
	service *AnalysisService
	jobID   uuid.UUID
	steps   models.AnalysisSteps
}

func (p *jobProgress) set(ctx context.Context, name, status string) error {
	if i := p.steps.Find(name); i >= 0 {
		p.steps[i].Status = status
	}
	return p.service.jobs.UpdateProgress(ctx, p.jobID, name, p.steps)
}

func (p *jobProgress) run(ctx context.Context, name string, fn func()) error {
	if err := p.set(ctx, name, models.StepInProgress); err != nil {
		return err
	}
	fn()
	return p.set(ctx, name, models.StepCompleted)
}
