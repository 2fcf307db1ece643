package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Storage implements Storage on an S3 bucket
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage creates an S3 client. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies. A custom
// endpoint (MinIO, LocalStack) switches to path-style addressing.
func NewS3Storage(cfg StorageConfig) (*S3Storage, error) {
	ctx := context.Background()

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client: client,
		bucket: cfg.S3Bucket,
	}, nil
}

// Upload stores a document in S3
func (s *S3Storage) Upload(ctx context.Context, documentID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(documentID, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storagePath),
		Body:        data,
		ContentType: aws.String(contentType(filename)),
		Metadata:    map[string]string{"document-id": documentID.String()},
	})

	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return storagePath, nil
}

// Download retrieves a document from S3
func (s *S3Storage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storagePath),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}

	return result.Body, nil
}

// Delete removes a document from S3
func (s *S3Storage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storagePath),
	})

	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}
