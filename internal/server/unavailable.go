package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"supermarket-dashboard/internal/errors"
	"supermarket-dashboard/internal/observability"
	"supermarket-dashboard/internal/ui/templates"
)

const unavailableMessage = "Dataset penjualan tidak dapat dimuat. Silakan periksa log server."

// NewUnavailableServer answers every route with 503 after a failed dataset
// load: an error page at / and a JSON error envelope elsewhere.
func NewUnavailableServer(cause error, logger *slog.Logger, assetsDir string) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := templates.Unavailable(unavailableMessage).Render(r.Context(), w); err != nil {
			logger.Error("render error page", "error", err)
		}
	})
	if assetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))
	}
	unavailable := func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, logger, errors.DataUnavailable(cause), observability.GetRequestID(r.Context()))
	}
	r.NotFound(unavailable)
	r.MethodNotAllowed(unavailable)

	return r
}
