package repository

import (
	"context"
	"testing"

	"clario-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDocumentRepository(t *testing.T) {
	repo := NewMemoryDocumentRepository()
	ctx := context.Background()

	doc := &models.Document{Filename: "lease.txt", MimeType: "text/plain", Size: 12}
	require.NoError(t, repo.Create(ctx, doc))
	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "lease.txt", got.Filename)

	got.Filename = "changed.txt"
	again, _ := repo.GetByID(ctx, doc.ID)
	assert.Equal(t, "lease.txt", again.Filename, "callers get copies")

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, doc.ID))
	_, err = repo.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryAnalysisJobRepository_Lifecycle(t *testing.T) {
	repo := NewMemoryAnalysisJobRepository()
	ctx := context.Background()
	docID := uuid.New()

	job := &models.AnalysisJob{
		DocumentID: docID,
		Status:     models.JobStatusPending,
		Steps:      models.AnalysisSteps{{Name: "Chunking Document", Status: models.StepPending}},
	}
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.UpdateStatus(ctx, job.ID, models.JobStatusInProgress))
	require.NoError(t, repo.UpdateProgress(ctx, job.ID, "Chunking Document",
		models.AnalysisSteps{{Name: "Chunking Document", Status: models.StepCompleted}}))
	require.NoError(t, repo.Complete(ctx, job.ID, models.AnalysisResult{
		Summary: "short", ModelOutcome: "unavailable", RedFlags: []string{"🚩 Confidentiality/NDA clause"},
	}))

	got, err := repo.GetLatestByDocumentID(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Equal(t, "Chunking Document", *got.CurrentStep)
	assert.Equal(t, models.StepCompleted, got.Steps[0].Status)
	assert.Equal(t, "short", *got.Summary)
	assert.Equal(t, []string{"🚩 Confidentiality/NDA clause"}, got.RedFlags)
	assert.NotNil(t, got.CompletedAt)

	_, err = repo.GetLatestByDocumentID(ctx, uuid.New())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Fail(ctx, uuid.New(), "x"), pgx.ErrNoRows)
}

func TestMemoryAnalysisJobRepository_Fail(t *testing.T) {
	repo := NewMemoryAnalysisJobRepository()
	ctx := context.Background()
	job := &models.AnalysisJob{DocumentID: uuid.New(), Status: models.JobStatusPending}
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.Fail(ctx, job.ID, "document has no text"))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, "document has no text", *got.ErrorMessage)
}
