// Package handler provides the HTTP request handlers of the Wanderlust server.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wanderlust/wanderlust/internal/middleware"
	"github.com/wanderlust/wanderlust/internal/render"
)

// Flash messages shown after successful actions and handled failures.
const (
	MsgListingCreated     = "New listing Created"
	MsgListingUpdated     = "listing updated"
	MsgListingDeleted     = "listing Deleted"
	MsgListingMissing     = "Listing you requested for does not exist"
	MsgReviewCreated      = "New Review Created"
	MsgReviewDeleted      = "Review Deleted"
	MsgWelcome            = "Welcome to Wanderlust!"
	MsgWelcomeBack        = "Welcome back!"
	MsgLoggedOut          = "You are logged out!"
	MsgUsernameTaken      = "A user with the given username is already registered"
	MsgEmailTaken         = "A user with the given email is already registered"
	MsgInvalidCredentials = "Password or username is incorrect"
	MsgImageUploadFailed  = "Image upload failed, please try again"
)

// Handler serves the fallback routes.
type Handler struct {
	responder *render.Responder
}

// New creates a new Handler instance.
func New(responder *render.Responder) *Handler {
	return &Handler{responder: responder}
}

// Root redirects to the listings index.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, middleware.ListingsPath, http.StatusFound)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusNotFound, "Page Not Found")
}

// MethodNotAllowed renders the 405 page.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// internalError logs err and renders the generic 500 page.
func internalError(w http.ResponseWriter, r *http.Request, responder *render.Responder, logger *slog.Logger, msg string, err error) {
	logger.Error(msg,
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	)
	responder.Error(w, r, http.StatusInternalServerError, render.DefaultErrorMessage)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
