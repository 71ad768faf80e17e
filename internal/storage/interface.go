package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface is the blob store boundary for photo evidence, signature
// images and rendered documents. Backed by the local filesystem in dev/test
// and by Google Cloud Storage in production.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL a client can PUT bytes to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a URL a client can GET bytes from.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Upload writes server-generated bytes (rendered PDFs) directly to the
	// store. Writing the same key again replaces the object, which is what
	// makes document-render retries idempotent.
	Upload(ctx context.Context, key string, contentType string, data []byte) error

	// FileExists checks if an object exists and returns its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes an object from storage.
	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the local backend's HTTP upload/download
	// endpoints. The GCS backend implements them against the bucket.
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
