// Package main is the entrypoint for the Wanderlust web server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/cache"
	"github.com/wanderlust/wanderlust/internal/config"
	"github.com/wanderlust/wanderlust/internal/handler"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/repository"
	"github.com/wanderlust/wanderlust/internal/server"
	"github.com/wanderlust/wanderlust/internal/service"
)

const mongoConnectTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	healthHandler := handler.NewHealthHandler(repo, cacheClient)

	blobs, mongoClient, err := openBlobStore(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to open blob store",
			slog.String("backend", cfg.BlobBackend),
			slog.String("error", sanitizeError(err, cfg.MongoURL)),
		)
		_ = cacheClient.Close()
		repo.Close()
		os.Exit(1)
	}
	if gridfsStore, ok := blobs.(*blob.GridFSStore); ok {
		healthHandler = healthHandler.WithCheck("mongo", gridfsStore)
	}
	logger.Info("blob store ready", slog.String("backend", cfg.BlobBackend))

	metricsRecorder := metrics.NewInMemory()

	listingService := service.NewListingService(repo, repo, repo, blobs, logger, metricsRecorder)
	reviewService := service.NewReviewService(repo, logger, metricsRecorder)
	userService, err := service.NewUserService(repo, logger, metricsRecorder)
	if err != nil {
		logger.Error("failed to initialize user service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:    logger,
		Responder: render.NewResponder(nil, logger),

		Listings: listingService,
		Reviews:  reviewService,
		Users:    userService,
		Blobs:    blobs,

		Sessions:    cacheClient,
		RateLimiter: cacheClient,
		Metrics:     metricsRecorder,
		Health:      healthHandler,

		IsDevelopment:      cfg.IsDevelopment(),
		SessionCookieName:  cfg.SessionCookieName,
		SessionTTL:         cfg.SessionTTL,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		MaxUploadSize:      cfg.MaxUploadSize,

		LoginRateLimitEnabled: cfg.RateLimitLoginEnabled,
		LoginRateLimitRPM:     cfg.RateLimitLoginRPM,
		LoginRateLimitBurst:   cfg.RateLimitLoginBurst,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Hooks run in reverse registration order.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	if mongoClient != nil {
		srv.OnShutdown("mongo", mongoClient.Disconnect)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"blob_backend", cfg.BlobBackend,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openBlobStore builds the configured image store. The Mongo client is
// returned so it can be disconnected on shutdown.
func openBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, *mongo.Client, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendCDN:
		store, err := blob.NewCDNStore(blob.CDNConfig{
			BaseURL:   cfg.CDNUploadURL,
			CloudName: cfg.CDNCloudName,
			APIKey:    cfg.CDNAPIKey,
			APISecret: cfg.CDNAPISecret,
			Folder:    cfg.CDNFolder,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.BlobBackendGridFS:
		connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := blob.NewGridFSStore(client.Database(cfg.MongoDatabase), cfg.UploadURLPrefix)
		if err := store.Ping(connectCtx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		return store, client, nil

	default:
		store, err := blob.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
