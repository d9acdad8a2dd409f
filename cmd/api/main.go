// Package main is the entrypoint for the Feedback API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chinmayYpatil/Feedback-Form/internal/cache"
	"github.com/chinmayYpatil/Feedback-Form/internal/config"
	"github.com/chinmayYpatil/Feedback-Form/internal/handler"
	"github.com/chinmayYpatil/Feedback-Form/internal/metrics"
	"github.com/chinmayYpatil/Feedback-Form/internal/middleware"
	"github.com/chinmayYpatil/Feedback-Form/internal/ratelimit"
	"github.com/chinmayYpatil/Feedback-Form/internal/repository"
	"github.com/chinmayYpatil/Feedback-Form/internal/server"
	"github.com/chinmayYpatil/Feedback-Form/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure feedback schema", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	// Rate limiter
	limiter, cacheClient, err := newLimiter(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}

	healthChecks := []handler.Check{{Name: "postgres", Checker: repo}}
	if cacheClient != nil {
		logger.Info("connected to Redis")
		healthChecks = append(healthChecks, handler.Check{Name: "redis", Checker: cacheClient})
	} else {
		healthChecks = append(healthChecks, handler.Check{Name: "redis"})
	}

	feedbackService := service.NewFeedbackService(repo, recorder)

	r := server.NewRouter(server.RouterConfig{
		Logger:             logger,
		Version:            cfg.AppVersion,
		EnableHSTS:         cfg.IsProduction(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Enabled: cfg.RateLimitEnabled,
			Backend: cfg.RateLimitBackend,
			Window:  cfg.RateLimitWindow,
			Metrics: recorder,
		},
		Feedback:     feedbackService,
		HealthChecks: healthChecks,
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first, closed last.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}
	if fw, ok := limiter.(*ratelimit.FixedWindow); ok && cfg.RateLimitSweepInterval > 0 {
		janitorCtx, cancelJanitor := context.WithCancel(context.Background())
		fw.StartJanitor(janitorCtx, cfg.RateLimitSweepInterval)
		srv.OnShutdown("ratelimit-janitor", func(context.Context) error {
			cancelJanitor()
			return nil
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"rate_limit_backend", cfg.RateLimitBackend,
		"rate_limit_max", cfg.RateLimitMax,
		"rate_limit_window", cfg.RateLimitWindow.String(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLimiter builds the configured rate limiter. The Redis client is
// returned so it can be health checked and closed; it is nil for the
// memory backend.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, *cache.Cache, error) {
	if !cfg.UsesRedis() {
		return ratelimit.NewFixedWindow(cfg.RateLimitMax, cfg.RateLimitWindow), nil, nil
	}

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewFixedWindowLimiter(cacheClient, cfg.RateLimitMax, cfg.RateLimitWindow), cacheClient, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.LogLevel),
		AddSource: cfg.IsDevelopment(),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "feedback-api")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
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
