package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-service/internal/config"
	"github.com/gokatarajesh/trivia-service/internal/question"
	httperrors "github.com/gokatarajesh/trivia-service/pkg/http/errors"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Options carries what the router needs beyond config.
type Options struct {
	Questions *question.HTTPHandler
	Registry  *prometheus.Registry
	// Checks are run by /readyz, keyed by dependency name.
	Checks map[string]Check
}

// NewHandler builds the full middleware-wrapped router.
func NewHandler(cfg *config.App, logger zerolog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(opts.Checks))
		for name, check := range opts.Checks {
			if err := check(ctx); err != nil {
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(results)
	})

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	if opts.Questions != nil {
		opts.Questions.Register(mux)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(mux, r); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			httperrors.RespondMethodNotAllowed(w)
			return
		}
		httperrors.RespondNotFound(w)
	})

	metrics := NewMetrics(registry)

	var handler http.Handler = mux
	handler = withRecovery(handler)
	handler = withCORS(cfg.CORS, handler)
	handler = metrics.Middleware(handler)
	handler = withRequestLogging(logger, handler)
	return handler
}

// NewHTTPServer wraps NewHandler in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, opts Options) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

var routedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// allowedMethods lists the methods for which r's path resolves to a route
// other than the catch-all.
func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allowed []string
	for _, m := range routedMethods {
		probe := r.Clone(r.Context())
		probe.Method = m
		if _, pattern := mux.Handler(probe); pattern != "" && pattern != "/" {
			allowed = append(allowed, m)
		}
	}
	return allowed
}
