package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// resolve joins storagePath to the base directory and refuses paths that
// escape it.
func (s *LocalStorage) resolve(storagePath string) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))
	rel, err := filepath.Rel(s.basePath, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path: %s", storagePath)
	}
	return fullPath, nil
}

// Upload stores a document locally
func (s *LocalStorage) Upload(ctx context.Context, documentID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(documentID, filename)
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return storagePath, nil
}

// Download opens a stored document
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a stored document; a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	fullPath, err := s.resolve(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
