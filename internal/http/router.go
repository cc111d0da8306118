package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"catan-results-bot/internal/metrics"
)

// RouterConfig controls which routes the router exposes.
type RouterConfig struct {
	Handler *Handler
	Logger  *slog.Logger
	Metrics *metrics.Recorder

	// WebhookPath mounts the Telegram update endpoint when non-empty. Long
	// polling deployments leave it unset and only serve the health routes.
	WebhookPath string
}

// NewRouter registers the HTTP routes.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(func(next nethttp.Handler) nethttp.Handler {
		return LoggingMiddleware(cfg.Logger, cfg.Metrics, next)
	})

	r.Get("/health", cfg.Handler.Health)
	r.Get("/ready", cfg.Handler.Ready)
	if cfg.WebhookPath != "" {
		r.Post(cfg.WebhookPath, cfg.Handler.Webhook)
	}
	return r
}
