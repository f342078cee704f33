package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/handler"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/middleware"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/service"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger    *slog.Logger
	Responder *render.Responder

	Listings *service.ListingService
	Reviews  *service.ReviewService
	Users    *service.UserService
	Blobs    blob.Store

	Sessions    middleware.SessionStore
	RateLimiter middleware.IPRateLimiter
	Metrics     metrics.Snapshotter
	Health      *handler.HealthHandler

	IsDevelopment      bool
	SessionCookieName  string
	SessionTTL         time.Duration
	MaxRequestBodySize int64
	MaxUploadSize      int64

	LoginRateLimitEnabled bool
	LoginRateLimitRPM     int
	LoginRateLimitBurst   int
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	responder := cfg.Responder
	if responder == nil {
		responder = render.NewResponder(nil, cfg.Logger)
	}

	h := handler.New(responder)
	listingHandler := handler.NewListingHandler(cfg.Listings, responder, cfg.Logger)
	reviewHandler := handler.NewReviewHandler(cfg.Reviews, responder, cfg.Logger)
	userHandler := handler.NewUserHandler(cfg.Users, responder, cfg.Logger)
	uploadHandler := handler.NewUploadHandler(cfg.Blobs, responder, cfg.Logger)
	metricsHandler := handler.NewMetricsHandler(cfg.Metrics)

	r := chi.NewRouter()

	// Global middleware. Method override must run before routing.
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, responder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize, responder))
	r.Use(middleware.MethodOverride)

	// Probes and metrics carry no session.
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	r.Get("/metrics", metricsHandler.Metrics)

	guards := middleware.GuardConfig{
		Listings:  cfg.Listings,
		Reviews:   cfg.Reviews,
		Responder: responder,
		Logger:    cfg.Logger,
	}
	requireOwner := middleware.RequireOwner(guards)
	requireReviewAuthor := middleware.RequireReviewAuthor(guards)
	validateListing := middleware.ValidateListing(cfg.MaxUploadSize, responder)
	validateReview := middleware.ValidateReview(responder)

	rateLimit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:            cfg.Logger,
			Limiter:           cfg.RateLimiter,
			Responder:         responder,
			Enabled:           cfg.LoginRateLimitEnabled && cfg.RateLimiter != nil,
			Scope:             scope,
			RequestsPerMinute: cfg.LoginRateLimitRPM,
			Burst:             cfg.LoginRateLimitBurst,
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(middleware.SessionConfig{
			Store:      cfg.Sessions,
			CookieName: cfg.SessionCookieName,
			TTL:        cfg.SessionTTL,
			Secure:     !cfg.IsDevelopment,
			Logger:     cfg.Logger,
		}))

		r.Get("/", h.Root)
		r.Get("/uploads/{filename}", uploadHandler.Serve)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listingHandler.Index)
			r.With(middleware.RequireLogin).Get("/new", listingHandler.New)
			r.With(validateListing, middleware.RequireLogin).Post("/", listingHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listingHandler.Show)
				r.With(middleware.RequireLogin, requireOwner).Get("/edit", listingHandler.Edit)
				r.With(validateListing, middleware.RequireLogin, requireOwner).Put("/", listingHandler.Update)
				r.With(middleware.RequireLogin, requireOwner).Delete("/", listingHandler.Delete)

				r.With(validateReview, middleware.RequireLogin).Post("/reviews", reviewHandler.Create)
				r.With(middleware.RequireLogin, requireReviewAuthor).Delete("/reviews/{reviewId}", reviewHandler.Delete)
			})
		})

		r.Get("/signup", userHandler.SignupForm)
		r.With(rateLimit("signup")).Post("/signup", userHandler.Signup)
		r.Get("/login", userHandler.LoginForm)
		r.With(rateLimit("login")).Post("/login", userHandler.Login)
		r.Get("/logout", userHandler.Logout)

		// Registered on the group so error pages see the session.
		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)
	})

	return r
}
