package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keygate/internal/platform/health"
	"keygate/internal/platform/middleware"
)

// RouterConfig carries the transport-level knobs main wires in.
type RouterConfig struct {
	// IssueKeyHash guards the issue endpoints when non-empty.
	IssueKeyHash string
	// RequestTimeout bounds each request. Zero means 30s.
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, hc *health.Handler, logger *slog.Logger, cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	// Issuance is operator-facing and may be key-guarded; verification is
	// open to license holders.
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.IssueKeyHash, logger))
		r.Post("/license/issue", h.handleIssue)
		r.Post("/license/token", h.handleTokenIssue)
	})

	r.Post("/license/verify", h.handleVerify)
	r.Post("/license/token/verify", h.handleTokenVerify)

	hc.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
