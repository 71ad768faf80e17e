package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorageService implements blob storage on the local filesystem.
// Presigned URLs point back at this server's upload/download endpoints.
// For demo and tests, without a cloud bucket.
type LocalStorageService struct {
	baseURL string // Server URL (e.g., "http://localhost:8080")
	dataDir string // Local directory for stored objects
}

// NewLocalStorageService creates a new local storage service
func NewLocalStorageService(baseURL, dataDir string) (*LocalStorageService, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorageService{
		baseURL: baseURL,
		dataDir: dataDir,
	}, nil
}

// GeneratePresignedUploadURL generates an upload URL pointing to this server.
// The key travels in the query parameter so the upload handler knows where
// to save.
func (s *LocalStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	uploadToken := uuid.New().String()
	return fmt.Sprintf("%s/api/v1/upload/%s?key=%s", s.baseURL, uploadToken, key), nil
}

// GeneratePresignedDownloadURL generates a download URL pointing to this server
func (s *LocalStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return fmt.Sprintf("%s/api/v1/download/%s?key=%s", s.baseURL, encodeKey(key), key), nil
}

// Upload writes bytes straight to the data directory
func (s *LocalStorageService) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	return s.SaveFile(key, bytes.NewReader(data))
}

// FileExists checks if the object exists on disk and returns its size
func (s *LocalStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	path, err := s.localPath(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

// DeleteFile removes the object from disk
func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	path, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SaveFile saves uploaded bytes under the key's path
func (s *LocalStorageService) SaveFile(key string, reader io.Reader) error {
	path, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile opens the stored object for reading
func (s *LocalStorageService) ReadFile(key string) (io.ReadCloser, error) {
	path, err := s.localPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// localPath maps a storage key to a filesystem path, refusing traversal.
func (s *LocalStorageService) localPath(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(s.dataDir, clean), nil
}

// encodeKey creates a URL-safe hash of the key
func encodeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
