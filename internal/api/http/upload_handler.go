package http

import (
	"io"
	"net/http"
	"path/filepath"

	"carshare-backend/internal/service"
	"carshare-backend/internal/storage"

	"github.com/gorilla/mux"
)

type UploadHandler struct {
	uploadSvc service.UploadService
}

func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// GetUploadURL presigns an evidence upload slot.
func (h *UploadHandler) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	key, url, err := h.uploadSvc.GetUploadURL(r.Context(), actorFrom(r).UserID, req.Filename, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "upload_url": url})
}

// GetDownloadURL presigns a read of a stored object.
func (h *UploadHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	url, err := h.uploadSvc.GetDownloadURL(r.Context(), actorFrom(r).UserID, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// LocalStorageHandler serves the endpoints the local storage backend's
// presigned URLs point at. Not registered when the GCS backend is active.
type LocalStorageHandler struct {
	store storage.StorageInterface
}

// HandleUpload accepts the PUT a client makes against a local presigned URL.
func (h *LocalStorageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	if err := h.store.SaveFile(key, r.Body); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}
	// Mimic a bucket response.
	w.Header().Set("ETag", `"local-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload streams a stored object back to the client.
func (h *LocalStorageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	file, err := h.store.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	case ".pdf":
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	io.Copy(w, file)
}

// RegisterLocalStorageRoutes registers the local backend's upload/download
// endpoints. Paths match the URLs LocalStorageService generates.
func RegisterLocalStorageRoutes(router *mux.Router, store storage.StorageInterface) {
	handler := &LocalStorageHandler{store: store}
	router.HandleFunc("/api/v1/upload/{token}", handler.HandleUpload).Methods("PUT")
	router.HandleFunc("/api/v1/download/{key}", handler.HandleDownload).Methods("GET")
}
