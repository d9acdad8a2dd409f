package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/chinmayYpatil/Feedback-Form/internal/handler"
	"github.com/chinmayYpatil/Feedback-Form/internal/middleware"
)

// FeedbackPath is the intake endpoint.
const FeedbackPath = "/api/feedback"

// RouterConfig holds everything the HTTP routes need.
type RouterConfig struct {
	Logger  *slog.Logger
	Version string

	EnableHSTS         bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
	RateLimit          middleware.RateLimitConfig

	Feedback     handler.FeedbackSubmitter
	HealthChecks []handler.Check
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter configures the chi router with all routes and middleware.
// The rate limiter sits on the intake route only, after method matching, so
// a wrong method is answered with 405 without consuming a slot. It runs ahead
// of the body size check so oversized payloads still count against the client.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	h := handler.New(cfg.Version)
	healthHandler := handler.NewHealthHandler(cfg.Logger, cfg.HealthChecks...)
	feedbackHandler := handler.NewFeedbackHandler(cfg.Feedback, cfg.Logger)

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{EnableHSTS: cfg.EnableHSTS}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimiddleware.StripSlashes)

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	// Root info endpoint
	r.Get("/", h.Hello)

	r.With(
		middleware.RateLimit(cfg.RateLimit),
		middleware.MaxBodySize(cfg.MaxRequestBodySize),
	).Post(FeedbackPath, feedbackHandler.Submit)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
