package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/handler/dto"
	"github.com/wanderlust/wanderlust/internal/middleware"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/service"
)

// ListingHandler handles HTTP requests for listing operations.
type ListingHandler struct {
	svc       *service.ListingService
	responder *render.Responder
	logger    *slog.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc *service.ListingService, responder *render.Responder, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		svc:       svc,
		responder: responder,
		logger:    logger,
	}
}

// Index handles GET /listings.
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) {
	index, err := h.svc.ListListings(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		internalError(w, r, h.responder, h.logger, "list listings failed", err)
		return
	}

	h.responder.Page(w, r, http.StatusOK, render.ViewListingsIndex, index)
}

// New handles GET /listings/new.
func (h *ListingHandler) New(w http.ResponseWriter, r *http.Request) {
	h.responder.Page(w, r, http.StatusOK, render.ViewListingsNew, dto.ListingFormPage{
		Categories: service.CategoryOptions(),
	})
}

// Create handles POST /listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := form.ListingFromContext(r.Context())
	ownerID := auth.UserIDFromContext(r.Context())

	listing, err := h.svc.CreateListing(r.Context(), ownerID, in)
	if err != nil {
		if errors.Is(err, service.ErrImageStore) {
			h.logger.Warn("listing image upload failed",
				slog.String("request_id", middleware.GetRequestID(r.Context())),
				slog.String("error", err.Error()),
			)
			render.Redirect(w, r, model.FlashError, MsgImageUploadFailed, middleware.ListingsPath+"/new")
			return
		}
		internalError(w, r, h.responder, h.logger, "create listing failed", err)
		return
	}

	h.logger.Info("listing_created",
		"listing_id", listing.ID,
		"owner_id", ownerID,
		"category", string(listing.Category),
		"uploaded_image", in.Upload != nil,
	)

	render.Redirect(w, r, model.FlashSuccess, MsgListingCreated, middleware.ListingsPath)
}

// Show handles GET /listings/{id}.
func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetListingDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			render.Redirect(w, r, model.FlashError, MsgListingMissing, middleware.ListingsPath)
			return
		}
		internalError(w, r, h.responder, h.logger, "get listing failed", err)
		return
	}

	h.responder.Page(w, r, http.StatusOK, render.ViewListingsShow, detail)
}

// Edit handles GET /listings/{id}/edit. The listing is loaded by the
// ownership guard.
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	listing := middleware.ListingFromContext(r.Context())
	h.responder.Page(w, r, http.StatusOK, render.ViewListingsEdit,
		dto.NewEditListingPage(listing, service.CategoryOptions()))
}

// Update handles PUT /listings/{id}.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := middleware.ListingFromContext(r.Context())
	in := form.ListingFromContext(r.Context())
	showPath := middleware.ListingsPath + "/" + existing.ID

	if _, err := h.svc.UpdateListing(r.Context(), existing, in); err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			render.Redirect(w, r, model.FlashError, MsgListingMissing, middleware.ListingsPath)
		case errors.Is(err, service.ErrImageStore):
			h.logger.Warn("listing image upload failed",
				slog.String("request_id", middleware.GetRequestID(r.Context())),
				slog.String("error", err.Error()),
			)
			render.Redirect(w, r, model.FlashError, MsgImageUploadFailed, showPath+"/edit")
		default:
			internalError(w, r, h.responder, h.logger, "update listing failed", err)
		}
		return
	}

	render.Redirect(w, r, model.FlashSuccess, MsgListingUpdated, showPath)
}

// Delete handles DELETE /listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteListing(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			render.Redirect(w, r, model.FlashError, MsgListingMissing, middleware.ListingsPath)
			return
		}
		internalError(w, r, h.responder, h.logger, "delete listing failed", err)
		return
	}

	render.Redirect(w, r, model.FlashSuccess, MsgListingDeleted, middleware.ListingsPath)
}
