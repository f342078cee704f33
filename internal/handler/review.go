package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/middleware"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/service"
)

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	svc       *service.ReviewService
	responder *render.Responder
	logger    *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *service.ReviewService, responder *render.Responder, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		svc:       svc,
		responder: responder,
		logger:    logger,
	}
}

// Create handles POST /listings/{id}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	in := form.ReviewFromContext(r.Context())

	review, err := h.svc.CreateReview(r.Context(), listingID, auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			render.Redirect(w, r, model.FlashError, MsgListingMissing, middleware.ListingsPath)
			return
		}
		internalError(w, r, h.responder, h.logger, "create review failed", err)
		return
	}

	h.logger.Info("review_created",
		"review_id", review.ID,
		"listing_id", listingID,
		"rating", review.Rating,
	)

	render.Redirect(w, r, model.FlashSuccess, MsgReviewCreated, middleware.ListingsPath+"/"+listingID)
}

// Delete handles DELETE /listings/{id}/reviews/{reviewId}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	showPath := middleware.ListingsPath + "/" + listingID

	if err := h.svc.DeleteReview(r.Context(), listingID, chi.URLParam(r, "reviewId")); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			render.Redirect(w, r, model.FlashError, middleware.MsgReviewNotFound, showPath)
			return
		}
		internalError(w, r, h.responder, h.logger, "delete review failed", err)
		return
	}

	render.Redirect(w, r, model.FlashSuccess, MsgReviewDeleted, showPath)
}
