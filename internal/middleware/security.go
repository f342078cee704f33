package middleware

import (
	"net/http"

	"github.com/wanderlust/wanderlust/internal/render"
)

// ContentSecurityPolicy allows same-origin pages plus the image hosts
// listings commonly point at.
const ContentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' data: https:; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
	"script-src 'self' https://cdn.jsdelivr.net; " +
	"form-action 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'"

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
}

// Security returns a middleware that applies security headers to all responses.
// Pages carry per-user flashes and session state, so nothing is cacheable.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", ContentSecurityPolicy)
			h.Set("Permissions-Policy", "microphone=(), camera=(), payment=(), usb=()")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("Cache-Control", "no-store")

			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize returns a middleware that limits request body size. Requests
// announcing a larger body get the 413 error page; bodies that lie about
// their length fail on read.
func MaxBodySize(maxBytes int64, responder *render.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				responder.Error(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
