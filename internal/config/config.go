// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Blob storage backends.
const (
	BlobBackendLocal  = "local"
	BlobBackendCDN    = "cdn"
	BlobBackendGridFS = "gridfs"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Sessions and rate limiting (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Sessions expire a fixed time after creation, regardless of activity.
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"wanderlust_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Login/signup throttling per client IP
	RateLimitLoginEnabled bool `env:"RATE_LIMIT_LOGIN_ENABLED" envDefault:"true"`
	RateLimitLoginRPM     int  `env:"RATE_LIMIT_LOGIN_RPM" envDefault:"10"`
	RateLimitLoginBurst   int  `env:"RATE_LIMIT_LOGIN_BURST" envDefault:"5"`

	// Image storage
	BlobBackend     string `env:"BLOB_BACKEND" envDefault:"local"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"var/uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"5242880"`

	// Remote CDN (Cloudinary-compatible upload API)
	CDNUploadURL string `env:"CDN_UPLOAD_URL" envDefault:"https://api.cloudinary.com"`
	CDNCloudName string `env:"CDN_CLOUD_NAME"`
	CDNAPIKey    string `env:"CDN_API_KEY"`
	CDNAPISecret string `env:"CDN_API_SECRET"`
	CDNFolder    string `env:"CDN_FOLDER" envDefault:"wanderlust/listings"`

	// MongoDB GridFS
	MongoURL      string `env:"MONGO_URL"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"wanderlust"`

	// Request body size limit in bytes (default 10MB, uploads included)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"10485760"`
}

// Config validation errors.
var (
	ErrUnknownBlobBackend = errors.New("unknown blob backend")
	ErrMissingCDNConfig   = errors.New("cdn backend requires CDN_CLOUD_NAME, CDN_API_KEY and CDN_API_SECRET")
	ErrMissingMongoURL    = errors.New("gridfs backend requires MONGO_URL")
	ErrInvalidSessionTTL  = errors.New("session TTL must be positive")
)

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}

	switch c.BlobBackend {
	case BlobBackendLocal:
		return nil
	case BlobBackendCDN:
		if c.CDNCloudName == "" || c.CDNAPIKey == "" || c.CDNAPISecret == "" {
			return ErrMissingCDNConfig
		}
		return nil
	case BlobBackendGridFS:
		if c.MongoURL == "" {
			return ErrMissingMongoURL
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBlobBackend, c.BlobBackend)
	}
}

// Load reads an optional .env file, parses environment variables and returns a Config.
// Returns an error if required variables are missing or the result is inconsistent.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
