package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"supermarket-dashboard/internal/config"
	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/handlers"
	"supermarket-dashboard/internal/metrics"
	"supermarket-dashboard/internal/middleware"
	"supermarket-dashboard/internal/observability"
	"supermarket-dashboard/internal/server"
	"supermarket-dashboard/internal/services"
	"supermarket-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

// newDashboardHandler renders the page shell; chart data follows over SSE.
func newDashboardHandler(analytics *services.Analytics, brandingURL string, previewRows int) http.HandlerFunc {
	bounds, _ := analytics.Bounds()
	view := templates.NewDashboardView(bounds, brandingURL, previewRows, analytics.Store().Len())

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(view).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// brandingImageURL returns the URL of the sidebar image, or "" when the file
// is missing.
func brandingImageURL(cfg config.AssetConfig, logger *slog.Logger) string {
	if cfg.BrandingImage == "" {
		return ""
	}
	file := filepath.Join(cfg.Dir, cfg.BrandingImage)
	if _, err := os.Stat(file); err != nil {
		logger.Warn("branding image unavailable, omitting it from the page",
			"path", file,
			"error", err,
		)
		return ""
	}
	return path.Join("/assets", filepath.ToSlash(cfg.BrandingImage))
}

func newMiddlewareChain(cfg *config.Config, logger *slog.Logger) middleware.Middleware {
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", handlers.Version,
		"config", cfg,
	)

	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		reg = newRegistry()
		m = metrics.New(reg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	start := time.Now()
	store, err := dataset.Load(ctx, cfg.Dataset.Path)
	cancel()

	var handler http.Handler
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", cfg.Dataset.Path)
		if !cfg.Dataset.ServeErrorPage {
			os.Exit(1)
		}
		logger.Warn("serving error page until restarted")
		handler = server.NewUnavailableServer(err, logger, cfg.Assets.Dir)
	} else {
		logger.Info("dataset loaded successfully",
			"records", store.Len(),
			"path", cfg.Dataset.Path,
			"duration", time.Since(start),
		)

		analytics := services.NewAnalytics(store, logger, m)
		templateHandlers := &server.TemplateHandlers{
			Dashboard: newDashboardHandler(analytics, brandingImageURL(cfg.Assets, logger), cfg.Dataset.PreviewRows),
		}

		opts := []server.Option{
			server.WithAssets(cfg.Assets.Dir),
			server.WithPreviewRows(cfg.Dataset.PreviewRows),
		}
		if reg != nil {
			opts = append(opts, server.WithMetrics(m, reg))
		}
		handler = server.NewServer(analytics, logger, templateHandlers, opts...)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newMiddlewareChain(cfg, logger)(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("log-final-stats", func(ctx context.Context) error {
		if store != nil {
			logger.Info("shutting down analytics service", "records", store.Len())
		}
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
