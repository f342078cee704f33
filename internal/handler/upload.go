package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/render"
)

// contentTyper is implemented by stores that keep the MIME type alongside
// the bytes.
type contentTyper interface {
	ContentType(ctx context.Context, filename string) string
}

// UploadHandler streams stored listing images.
type UploadHandler struct {
	store     blob.Store
	responder *render.Responder
	logger    *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store blob.Store, responder *render.Responder, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, responder: responder, logger: logger}
}

// Serve handles GET /uploads/{filename}.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	rc, err := h.store.Open(r.Context(), filename)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidFilename) || errors.Is(err, blob.ErrOpenUnsupported) {
			h.responder.Error(w, r, http.StatusNotFound, "Image not found")
			return
		}
		internalError(w, r, h.responder, h.logger, "open upload failed", err)
		return
	}
	defer rc.Close()

	contentType := blob.ContentTypeForFilename(filename)
	if ct, ok := h.store.(contentTyper); ok {
		contentType = ct.ContentType(r.Context(), filename)
	}

	// Stored names are unique and never rewritten.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("upload stream interrupted",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}
