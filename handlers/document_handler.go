package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"clario-backend/models"
	"clario-backend/service"
	"clario-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentRecorder stores and reads document records
type DocumentRecorder interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// DocumentHandler handles uploads and background analysis of documents
type DocumentHandler struct {
	documents   DocumentRecorder
	storage     storage.Storage
	analysis    *service.AnalysisService
	logger      *zap.Logger
	maxFileSize int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents DocumentRecorder, st storage.Storage, analysis *service.AnalysisService, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{
		documents:   documents,
		storage:     st,
		analysis:    analysis,
		logger:      logger,
		maxFileSize: service.MaxDocumentBytes,
	}
}

func isPlainText(filename, mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", ".md":
		return true
	}
	return false
}

// Upload handles POST /api/documents/upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	if fileHeader.Size > h.maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !isPlainText(fileHeader.Filename, mimeType) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE",
			"Only plain-text documents are accepted; extract the text from PDF or Word files first")
		return
	}
	if !strings.HasPrefix(mimeType, "text/") {
		mimeType = "text/plain"
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_READ_ERROR", err.Error())
		return
	}
	if int64(len(data)) > h.maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return
	}
	if !utf8.Valid(data) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "File is not valid UTF-8 text")
		return
	}

	ctx := c.Request.Context()
	doc := &models.Document{
		ID:       uuid.New(),
		Filename: filepath.Base(fileHeader.Filename),
		MimeType: mimeType,
		Size:     int64(len(data)),
		Checksum: storage.Checksum(data),
	}

	doc.StoragePath, err = h.storage.Upload(ctx, doc.ID, doc.Filename, bytes.NewReader(data))
	if err != nil {
		h.logger.Error("document upload failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store document")
		return
	}

	if err := h.documents.Create(ctx, doc); err != nil {
		if delErr := h.storage.Delete(ctx, doc.StoragePath); delErr != nil {
			h.logger.Warn("failed to clean up stored document", zap.String("path", doc.StoragePath), zap.Error(delErr))
		}
		h.logger.Error("failed to save document record", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save document record")
		return
	}

	respondData(c, http.StatusCreated, doc)
}

// Download handles GET /api/documents/:id
func (h *DocumentHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID format")
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Stored document is missing")
			return
		}
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", "Failed to read document")
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
	})
}

// Analyze handles POST /api/documents/:id/analyze
func (h *DocumentHandler) Analyze(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID format")
		return
	}

	result, err := h.analysis.StartAnalysis(c.Request.Context(), service.StartAnalysisRequest{DocumentID: id})
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "ANALYSIS_FAILED", err.Error())
		return
	}

	// The request context ends with the response; the job outlives it.
	go func(jobID uuid.UUID) {
		if err := h.analysis.ProcessAnalysis(context.Background(), jobID); err != nil {
			h.logger.Warn("analysis job failed", zap.Stringer("job_id", jobID), zap.Error(err))
		}
	}(result.JobID)

	respondData(c, http.StatusAccepted, gin.H{
		"job_id":  result.JobID,
		"status":  models.JobStatusPending,
		"message": "Analysis job created. Poll /api/jobs/:id for updates.",
	})
}

// GetJob handles GET /api/jobs/:id
func (h *DocumentHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid job ID format")
		return
	}

	result, err := h.analysis.GetJob(c.Request.Context(), service.GetJobRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis job not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, result.Job)
}
