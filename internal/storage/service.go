// Package storage provides object storage for quote offer attachments.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL is a time-limited URL for a direct client upload or download.
type PresignedURL struct {
	URL       string
	FileKey   string
	ExpiresAt time.Time
}

// StorageService abstracts the object store used for offer attachments.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
	// GenerateUploadURL creates a presigned PUT URL; the returned FileKey is
	// unique and must be echoed back when the upload is confirmed.
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)
	// GenerateDownloadURL creates a presigned GET URL for an existing object.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)
	// DownloadFile streams an object; the caller closes the reader.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
	// UploadFile stores an object directly and returns its file key.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	// ValidateContentType rejects MIME types outside the allow list.
	ValidateContentType(contentType string) error
	// ValidateFileSize rejects files above the configured maximum.
	ValidateFileSize(sizeBytes int64) error
}

// Config provides the settings needed to construct the MinIO-backed service.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
