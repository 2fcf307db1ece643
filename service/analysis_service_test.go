package service

import (
	"context"
	"strings"
	"testing"

	"clario-backend/generator"
	"clario-backend/models"
	"clario-backend/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analysisFixture struct {
	svc   *AnalysisService
	jobs  *memoryJobs
	docID uuid.UUID
}

func newAnalysisFixture(t *testing.T, content string, opts ...AnalysisServiceOption) *analysisFixture {
	t.Helper()

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	docID := uuid.New()
	path, err := st.Upload(context.Background(), docID, "contract.txt", strings.NewReader(content))
	require.NoError(t, err)

	jobs := newMemoryJobs()
	docs := newMemoryDocuments(&models.Document{ID: docID, Filename: "contract.txt", StoragePath: path})

	base := []AnalysisServiceOption{
		AnalysisWithDocumentStore(docs),
		AnalysisWithJobStore(jobs),
		AnalysisWithStorage(st),
	}
	return &analysisFixture{
		svc:   NewAnalysisService(append(base, opts...)...),
		jobs:  jobs,
		docID: docID,
	}
}

func TestStartAnalysis_CreatesPendingJob(t *testing.T) {
	f := newAnalysisFixture(t, terminationClause)

	res, err := f.svc.StartAnalysis(context.Background(), StartAnalysisRequest{DocumentID: f.docID})
	require.NoError(t, err)

	got, err := f.svc.GetJob(context.Background(), GetJobRequest{JobID: res.JobID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Job.Status)
	assert.Equal(t, f.docID, got.Job.DocumentID)
	require.Len(t, got.Job.Steps, 5)
	for i, name := range []string{StepChunking, StepExtracting, StepRewriting, StepNormalizing, StepDetectingRisk} {
		assert.Equal(t, name, got.Job.Steps[i].Name)
		assert.Equal(t, models.StepPending, got.Job.Steps[i].Status)
	}
}

func TestStartAnalysis_Errors(t *testing.T) {
	f := newAnalysisFixture(t, terminationClause)

	_, err := f.svc.StartAnalysis(context.Background(), StartAnalysisRequest{DocumentID: uuid.New()})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	f.jobs.failCreate = true
	_, err = f.svc.StartAnalysis(context.Background(), StartAnalysisRequest{DocumentID: f.docID})
	assert.ErrorIs(t, err, ErrJobCreationFailed)

	_, err = NewAnalysisService().StartAnalysis(context.Background(), StartAnalysisRequest{DocumentID: f.docID})
	assert.Error(t, err)
}

func TestProcessAnalysis_Completes(t *testing.T) {
	provider, _ := stubProvider(t, replyWith("You can be let go at any time, and you might not be paid."))
	summaries := NewSummaryService(SummaryWithProvider(provider))
	f := newAnalysisFixture(t, "Employee may be terminated at any time without cause. No compensation is owed.",
		AnalysisWithSummaryService(summaries))
	ctx := context.Background()

	res, err := f.svc.StartAnalysis(ctx, StartAnalysisRequest{DocumentID: f.docID})
	require.NoError(t, err)
	require.NoError(t, f.svc.ProcessAnalysis(ctx, res.JobID))

	got, err := f.svc.GetJob(ctx, GetJobRequest{JobID: res.JobID})
	require.NoError(t, err)
	job := got.Job

	assert.Equal(t, models.JobStatusCompleted, job.Status)
	require.NotNil(t, job.Summary)
	assert.Equal(t, "You can be let go whenever, and you might not be paid.", *job.Summary)
	assert.True(t, job.UsedModel)
	require.NotNil(t, job.ModelOutcome)
	assert.Equal(t, string(generator.StatusAccepted), *job.ModelOutcome)
	assert.Equal(t, []string{"🚩 Employer can terminate at will", "🚩 No salary/compensation issue"}, job.RedFlags)
	for _, step := range job.Steps {
		assert.Equal(t, models.StepCompleted, step.Status, step.Name)
	}
	assert.Equal(t, []string{
		StepChunking + ":in_progress", StepChunking + ":completed",
		StepExtracting + ":in_progress", StepExtracting + ":completed",
		StepRewriting + ":in_progress", StepRewriting + ":completed",
		StepNormalizing + ":in_progress", StepNormalizing + ":completed",
		StepDetectingRisk + ":in_progress", StepDetectingRisk + ":completed",
	}, f.jobs.progress)
}

func TestProcessAnalysis_WithoutGeneratorKeepsDraft(t *testing.T) {
	f := newAnalysisFixture(t, terminationClause)
	ctx := context.Background()

	res, err := f.svc.StartAnalysis(ctx, StartAnalysisRequest{DocumentID: f.docID})
	require.NoError(t, err)
	require.NoError(t, f.svc.ProcessAnalysis(ctx, res.JobID))

	got, err := f.svc.GetJob(ctx, GetJobRequest{JobID: res.JobID})
	require.NoError(t, err)
	assert.Equal(t, "Employee may be terminated anytime without reason.", *got.Job.Summary)
	assert.False(t, got.Job.UsedModel)
	assert.Equal(t, string(generator.StatusUnavailable), *got.Job.ModelOutcome)
}

func TestProcessAnalysis_FailsOnUnusableDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"blank", " \n\n ", ErrEmptyDocument},
		{"binary", "\xff\xfe\x00bad", ErrNotPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAnalysisFixture(t, tt.content)
			ctx := context.Background()

			res, err := f.svc.StartAnalysis(ctx, StartAnalysisRequest{DocumentID: f.docID})
			require.NoError(t, err)

			err = f.svc.ProcessAnalysis(ctx, res.JobID)
			assert.ErrorIs(t, err, tt.err)

			got, err := f.svc.GetJob(ctx, GetJobRequest{JobID: res.JobID})
			require.NoError(t, err)
			assert.Equal(t, models.JobStatusFailed, got.Job.Status)
			require.NotNil(t, got.Job.ErrorMessage)
			assert.Equal(t, tt.err.Error(), *got.Job.ErrorMessage)
		})
	}
}

func TestGetJob_NotFound(t *testing.T) {
	f := newAnalysisFixture(t, terminationClause)

	_, err := f.svc.GetJob(context.Background(), GetJobRequest{JobID: uuid.New()})

	assert.ErrorIs(t, err, ErrJobNotFound)
}
