package repository

import (
	"context"

	"clario-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record, assigning an ID when none is set
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, filename, mime_type, size, checksum, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	return r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.Checksum,
		doc.StoragePath,
	).Scan(&doc.ID, &doc.CreatedAt)
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc := &models.Document{}
	query := `
		SELECT id, filename, mime_type, size, checksum, storage_path, created_at
		FROM documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.Checksum,
		&doc.StoragePath,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// List retrieves the most recent documents
func (r *DocumentRepository) List(ctx context.Context, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, filename, mime_type, size, checksum, storage_path, created_at
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.MimeType,
			&doc.Size,
			&doc.Checksum,
			&doc.StoragePath,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Delete deletes a document record and its analysis jobs
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
