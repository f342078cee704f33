package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/service"
)

// Flash messages set by the guards.
const (
	MsgLoginRequired    = "You must be logged in to do that"
	MsgListingNotFound  = "Listing not found"
	MsgReviewNotFound   = "Review not found"
	MsgPermissionDenied = "You do not have permission to do that"
	MsgNotReviewAuthor  = "You are not the author of this review"
)

// Redirect targets.
const (
	LoginPath    = "/login"
	ListingsPath = "/listings"
)

const (
	listingIDParam = "id"
	reviewIDParam  = "reviewId"
)

// ListingGetter loads a listing by id.
type ListingGetter interface {
	GetListing(ctx context.Context, id string) (*model.Listing, error)
}

// ReviewGetter loads a review of a listing.
type ReviewGetter interface {
	GetReview(ctx context.Context, listingID, reviewID string) (*model.Review, error)
}

type listingContextKey struct{}

// ContextWithListing stores a loaded listing in ctx.
func ContextWithListing(ctx context.Context, listing *model.Listing) context.Context {
	return context.WithValue(ctx, listingContextKey{}, listing)
}

// ListingFromContext returns the listing loaded by RequireOwner, or nil.
func ListingFromContext(ctx context.Context) *model.Listing {
	listing, _ := ctx.Value(listingContextKey{}).(*model.Listing)
	return listing
}

// RequireLogin lets authenticated requests through. Anonymous requests are
// redirected to the login page after the pending destination is recorded,
// unless one is already waiting.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFromContext(r.Context())
		if sess.IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}

		if sess != nil {
			sess.RememberReturnTo(auth.PendingDestination(r.Method, r.URL.RequestURI(), r.Referer()))
		}
		render.Redirect(w, r, model.FlashError, MsgLoginRequired, LoginPath)
	})
}

// GuardConfig holds the dependencies of the ownership guards.
type GuardConfig struct {
	Listings  ListingGetter
	Reviews   ReviewGetter
	Responder *render.Responder
	Logger    *slog.Logger
}

// RequireOwner loads the listing named by the {id} URL parameter and lets
// the request through only for its owner. The listing is handed to the
// handler through the context. Must run after RequireLogin.
func RequireOwner(cfg GuardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, listingIDParam)

			listing, err := cfg.Listings.GetListing(r.Context(), id)
			if err != nil {
				if errors.Is(err, service.ErrListingNotFound) {
					render.Redirect(w, r, model.FlashError, MsgListingNotFound, ListingsPath)
					return
				}
				cfg.internalError(w, r, "listing lookup failed", err)
				return
			}

			if !listing.IsOwnedBy(auth.UserIDFromContext(r.Context())) {
				render.Redirect(w, r, model.FlashError, MsgPermissionDenied, ListingsPath+"/"+listing.ID)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithListing(r.Context(), listing)))
		})
	}
}

// RequireReviewAuthor lets the request through only for the author of the
// review named by the {reviewId} URL parameter. Must run after RequireLogin.
func RequireReviewAuthor(cfg GuardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			listingID := chi.URLParam(r, listingIDParam)
			listingPath := ListingsPath + "/" + listingID

			review, err := cfg.Reviews.GetReview(r.Context(), listingID, chi.URLParam(r, reviewIDParam))
			if err != nil {
				if errors.Is(err, service.ErrReviewNotFound) {
					render.Redirect(w, r, model.FlashError, MsgReviewNotFound, listingPath)
					return
				}
				cfg.internalError(w, r, "review lookup failed", err)
				return
			}

			if !review.IsAuthoredBy(auth.UserIDFromContext(r.Context())) {
				render.Redirect(w, r, model.FlashError, MsgNotReviewAuthor, listingPath)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (cfg GuardConfig) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(msg,
		slog.String("request_id", GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	)
	cfg.Responder.Error(w, r, http.StatusInternalServerError, render.DefaultErrorMessage)
}
