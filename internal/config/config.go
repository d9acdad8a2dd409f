// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Rate limiter backends.
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

var (
	ErrInvalidRateLimitBackend = errors.New("RATE_LIMIT_BACKEND must be memory or redis")
	ErrRedisURLRequired        = errors.New("REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
	ErrInvalidRateLimit        = errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	ErrInvalidPort             = errors.New("PORT must be between 1 and 65535")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	AppPort    int    `env:"PORT" envDefault:"10000"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Cache (Redis), only used by the redis rate limit backend
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting
	RateLimitEnabled       bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitBackend       string        `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	RateLimitMax           int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindow        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitSweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"5m"`

	// CORS configuration
	// Comma-separated list of allowed origins, or "*" for any origin
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesRedis reports whether the shared Redis rate limiter is selected.
func (c *Config) UsesRedis() bool {
	return c.RateLimitEnabled && c.RateLimitBackend == RateLimitBackendRedis
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks rules that span several variables.
func (c *Config) Validate() error {
	if c.AppPort < 1 || c.AppPort > 65535 {
		return ErrInvalidPort
	}

	switch c.RateLimitBackend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidRateLimitBackend, c.RateLimitBackend)
	}

	if c.RateLimitEnabled {
		if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
			return ErrInvalidRateLimit
		}
		if c.RateLimitBackend == RateLimitBackendRedis && c.RedisURL == "" {
			return ErrRedisURLRequired
		}
	}

	return nil
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
