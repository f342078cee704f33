package middleware

import (
	"net/http"

	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/render"
)

// ValidateListing parses and validates the listing form before any guard
// runs. Malformed input gets the 400 error page.
func ValidateListing(maxUpload int64, responder *render.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, err := form.ParseListing(r, maxUpload)
			if err != nil {
				responder.Error(w, r, http.StatusBadRequest, err.Error())
				return
			}
			if in.Upload != nil {
				defer in.Upload.Close()
			}

			next.ServeHTTP(w, r.WithContext(form.WithListing(r.Context(), in)))
		})
	}
}

// ValidateReview parses and validates the review form.
func ValidateReview(responder *render.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, err := form.ParseReview(r)
			if err != nil {
				responder.Error(w, r, http.StatusBadRequest, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(form.WithReview(r.Context(), in)))
		})
	}
}
