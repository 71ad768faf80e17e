package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// GCSStorageService implements blob storage on a Google Cloud Storage bucket,
// initialized through the Firebase SDK so the same service account covers
// storage and future push messaging.
type GCSStorageService struct {
	bucket *gcs.BucketHandle
}

// NewGCSStorageService connects to the configured bucket
func NewGCSStorageService(ctx context.Context, bucketName, credentialsFile string) (*GCSStorageService, error) {
	conf := &firebase.Config{StorageBucket: bucketName}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get default bucket: %w", err)
	}
	return &GCSStorageService{bucket: bucket}, nil
}

func (s *GCSStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Method:      "PUT",
		Expires:     time.Now().Add(expiresIn),
		ContentType: contentType,
	}
	url, err := s.bucket.SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL for %s: %w", key, err)
	}
	return url, nil
}

func (s *GCSStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiresIn),
	}
	url, err := s.bucket.SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL for %s: %w", key, err)
	}
	return url, nil
}

func (s *GCSStorageService) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	attrs, err := s.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, attrs.Size, nil
}

func (s *GCSStorageService) DeleteFile(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// SaveFile streams uploaded bytes into the bucket. Only the local backend's
// upload endpoint calls this in practice, but the bucket implementation keeps
// the interface whole.
func (s *GCSStorageService) SaveFile(key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return s.Upload(context.Background(), key, "application/octet-stream", data)
}

func (s *GCSStorageService) ReadFile(key string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(key).NewReader(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}
	return r, nil
}

// NewFromConfig selects a backend by storage type.
func NewFromConfig(ctx context.Context, storageType, baseURL, uploadDir, bucket, credentialsFile string) (StorageInterface, error) {
	switch storageType {
	case "gcs":
		return NewGCSStorageService(ctx, bucket, credentialsFile)
	case "local", "":
		return NewLocalStorageService(baseURL, uploadDir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
