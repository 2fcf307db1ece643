package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clario-backend/generator"
	"clario-backend/models"

	"github.com/google/uuid"
)

// stubGenerator answers every prompt with reply and records the prompts.
type stubGenerator struct {
	mu      sync.Mutex
	reply   func(prompt string) (string, error)
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.reply(prompt)
}

func (g *stubGenerator) Name() string { return "stub" }
func (g *stubGenerator) Close() error { return nil }

func (g *stubGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func stubProvider(t *testing.T, reply func(prompt string) (string, error)) (*generator.Provider, *stubGenerator) {
	t.Helper()
	gen := &stubGenerator{reply: reply}
	p := generator.NewProvider("stub", func(context.Context) (generator.Generator, error) { return gen, nil })
	return p, gen
}

func replyWith(text string) func(string) (string, error) {
	return func(string) (string, error) { return text, nil }
}

var errStore = errors.New("store unavailable")

type memoryDocuments struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newMemoryDocuments(docs ...*models.Document) *memoryDocuments {
	m := &memoryDocuments{docs: make(map[uuid.UUID]*models.Document)}
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return m
}

func (m *memoryDocuments) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return d, nil
}

type memoryJobs struct {
	mu         sync.Mutex
	jobs       map[uuid.UUID]*models.AnalysisJob
	failCreate bool
	progress   []string
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{jobs: make(map[uuid.UUID]*models.AnalysisJob)}
}

func (m *memoryJobs) Create(ctx context.Context, job *models.AnalysisJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errStore
	}
	stored := *job
	stored.Steps = append(models.AnalysisSteps(nil), job.Steps...)
	m.jobs[job.ID] = &stored
	return nil
}

func (m *memoryJobs) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *job
	copied.Steps = append(models.AnalysisSteps(nil), job.Steps...)
	return &copied, nil
}

func (m *memoryJobs) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnalysisJobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[id].Status = status
	return nil
}

func (m *memoryJobs) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := m.jobs[id]
	job.CurrentStep = &currentStep
	job.Steps = append(models.AnalysisSteps(nil), steps...)
	if i := steps.Find(currentStep); i >= 0 {
		m.progress = append(m.progress, currentStep+":"+steps[i].Status)
	}
	return nil
}

func (m *memoryJobs) Complete(ctx context.Context, id uuid.UUID, result models.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := m.jobs[id]
	job.Status = models.JobStatusCompleted
	job.Summary = &result.Summary
	job.UsedModel = result.UsedModel
	job.ModelOutcome = &result.ModelOutcome
	job.RedFlags = result.RedFlags
	return nil
}

func (m *memoryJobs) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := m.jobs[id]
	job.Status = models.JobStatusFailed
	job.ErrorMessage = &errorMessage
	return nil
}
