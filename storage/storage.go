// Package storage keeps the raw bytes of uploaded documents on the local
// filesystem or in S3.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// ErrObjectNotFound is returned by Download when nothing is stored at the path.
var ErrObjectNotFound = errors.New("stored document not found")

// Storage interface for document storage operations
type Storage interface {
	// Upload stores a document and returns its storage path
	Upload(ctx context.Context, documentID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a document by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a document by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", StorageTypeLocal:
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./storage/documents"
		}
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Checksum returns the hex blake2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// generateStoragePath builds a unique, sharded path for a document
func generateStoragePath(documentID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	baseName = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, baseName)
	if baseName == "" || baseName == "." {
		baseName = "document"
	}

	id := documentID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, baseName, ext)
}

// contentType maps the accepted plain-text extensions to a MIME type
func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text":
		return "text/plain; charset=utf-8"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
