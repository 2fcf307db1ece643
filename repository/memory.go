package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"clario-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MemoryDocumentRepository keeps documents in process memory. Lookups of
// unknown IDs fail with pgx.ErrNoRows, like the Postgres repository.
type MemoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]models.Document
}

// NewMemoryDocumentRepository creates an empty in-memory document repository
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{docs: make(map[uuid.UUID]models.Document)}
}

// Create stores a copy of doc
func (r *MemoryDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	return nil
}

// GetByID retrieves a document by ID
func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &doc, nil
}

// List returns the newest documents first
func (r *MemoryDocumentRepository) List(ctx context.Context, limit int) ([]*models.Document, error) {
	r.mu.RLock()
	docs := make([]*models.Document, 0, len(r.docs))
	for _, d := range r.docs {
		d := d
		docs = append(docs, &d)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Delete removes a document
func (r *MemoryDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

// MemoryAnalysisJobRepository keeps analysis jobs in process memory
type MemoryAnalysisJobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.AnalysisJob
}

// NewMemoryAnalysisJobRepository creates an empty in-memory job repository
func NewMemoryAnalysisJobRepository() *MemoryAnalysisJobRepository {
	return &MemoryAnalysisJobRepository{jobs: make(map[uuid.UUID]*models.AnalysisJob)}
}

func cloneJob(job *models.AnalysisJob) *models.AnalysisJob {
	c := *job
	c.Steps = append(models.AnalysisSteps{}, job.Steps...)
	c.RedFlags = append([]string{}, job.RedFlags...)
	return &c
}

// Create stores a new job
func (r *MemoryAnalysisJobRepository) Create(ctx context.Context, job *models.AnalysisJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now().UTC()
	job.CreatedAt, job.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

// GetByID retrieves a job by ID
func (r *MemoryAnalysisJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneJob(job), nil
}

// GetLatestByDocumentID retrieves the newest job for a document
func (r *MemoryAnalysisJobRepository) GetLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.AnalysisJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.AnalysisJob
	for _, job := range r.jobs {
		if job.DocumentID == documentID && (latest == nil || job.CreatedAt.After(latest.CreatedAt)) {
			latest = job
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	return cloneJob(latest), nil
}

func (r *MemoryAnalysisJobRepository) update(id uuid.UUID, fn func(job *models.AnalysisJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus updates the status of a job
func (r *MemoryAnalysisJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnalysisJobStatus) error {
	return r.update(id, func(job *models.AnalysisJob) { job.Status = status })
}

// UpdateProgress records the current step and the step list
func (r *MemoryAnalysisJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error {
	return r.update(id, func(job *models.AnalysisJob) {
		job.CurrentStep = &currentStep
		job.Steps = append(models.AnalysisSteps{}, steps...)
	})
}

// Complete stores the result and marks the job as completed
func (r *MemoryAnalysisJobRepository) Complete(ctx context.Context, id uuid.UUID, result models.AnalysisResult) error {
	return r.update(id, func(job *models.AnalysisJob) {
		now := time.Now().UTC()
		job.Status = models.JobStatusCompleted
		job.Summary = &result.Summary
		job.UsedModel = result.UsedModel
		job.ModelOutcome = &result.ModelOutcome
		job.RedFlags = append([]string{}, result.RedFlags...)
		job.CompletedAt = &now
	})
}

// Fail marks a job as failed
func (r *MemoryAnalysisJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	return r.update(id, func(job *models.AnalysisJob) {
		job.Status = models.JobStatusFailed
		job.ErrorMessage = &errorMessage
	})
}
