package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"supermarket-dashboard/internal/errors"
	"supermarket-dashboard/internal/handlers"
	"supermarket-dashboard/internal/metrics"
	"supermarket-dashboard/internal/middleware"
	"supermarket-dashboard/internal/observability"
	"supermarket-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
	opts        options
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

type options struct {
	assetsDir   string
	previewRows int
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
}

type Option func(*options)

// WithAssets serves the files in dir under /assets/.
func WithAssets(dir string) Option {
	return func(o *options) { o.assetsDir = dir }
}

func WithPreviewRows(n int) Option {
	return func(o *options) { o.previewRows = n }
}

// WithMetrics records request metrics into m and exposes g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(o *options) {
		o.metrics = m
		o.gatherer = g
	}
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, opts ...Option) *Server {
	o := options{previewRows: 50}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		analytics:   analytics,
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger, o.previewRows),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger, o.previewRows),
		opts:        o,
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	r := s.router
	if s.opts.metrics != nil {
		r.Use(middleware.Metrics(s.opts.metrics))
	}
	r.NotFound(s.handleNotFound)

	// Dashboard routes
	r.Get("/", templateHandlers.Dashboard)
	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)
	if s.opts.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.gatherer, promhttp.HandlerOpts{}))
	}
	if s.opts.assetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.opts.assetsDir))))
	}

	// REST API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/bounds", s.apiHandlers.HandleBounds)
		r.Get("/trend", s.apiHandlers.HandleTrend)
		r.Get("/categories", s.apiHandlers.HandleCategories)
		r.Get("/heatmap", s.apiHandlers.HandleHeatmap)
		r.Get("/gender", s.apiHandlers.HandleGender)
		r.Get("/dataset", s.apiHandlers.HandleDataset)
	})

	// Datastar SSE endpoints
	r.Route("/sse", func(r chi.Router) {
		r.Get("/trend", s.sseHandlers.HandleTrend)
		r.Get("/categories", s.sseHandlers.HandleCategories)
		r.Get("/heatmap", s.sseHandlers.HandleHeatmap)
		r.Get("/gender", s.sseHandlers.HandleGender)
		r.Get("/preview", s.sseHandlers.HandlePreview)
		r.Get("/refresh-all", s.sseHandlers.HandleRefreshAll)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, s.logger, errors.NotFound("No route for "+r.URL.Path), observability.GetRequestID(r.Context()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
