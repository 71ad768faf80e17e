package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/storage"

	"github.com/google/uuid"
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type uploadService struct {
	store     storage.StorageInterface
	urlExpiry time.Duration
}

func NewUploadService(store storage.StorageInterface, urlExpiry time.Duration) UploadService {
	return &uploadService{store: store, urlExpiry: urlExpiry}
}

// GetUploadURL presigns an upload slot. Keys are namespaced per uploader so
// one user can never overwrite another's evidence.
func (s *uploadService) GetUploadURL(ctx context.Context, actorID int32, filename, contentType string) (string, string, error) {
	if !allowedUploadTypes[contentType] {
		return "", "", domain.NewValidationError("unsupported content type: %s", contentType)
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return "", "", domain.NewValidationError("filename must carry an extension")
	}

	key := fmt.Sprintf("evidence/%d/%s%s", actorID, uuid.New().String(), ext)
	url, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, s.urlExpiry)
	if err != nil {
		return "", "", domain.NewExternalError(err, "presign upload")
	}
	return key, url, nil
}

func (s *uploadService) GetDownloadURL(ctx context.Context, actorID int32, key string) (string, error) {
	exists, _, err := s.store.FileExists(ctx, key)
	if err != nil {
		return "", domain.NewExternalError(err, "check object %s", key)
	}
	if !exists {
		return "", domain.NewNotFoundError("object %s not found", key)
	}
	url, err := s.store.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return "", domain.NewExternalError(err, "presign download")
	}
	return url, nil
}
