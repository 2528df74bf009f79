package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"supermarket-dashboard/internal/charts"
	"supermarket-dashboard/internal/errors"
	"supermarket-dashboard/internal/models"
	"supermarket-dashboard/internal/observability"
	"supermarket-dashboard/internal/services"
)

const (
	Version     = "1.0.0"
	cacheMaxAge = "public, max-age=300"
)

type APIHandlers struct {
	analytics   *services.Analytics
	logger      *slog.Logger
	previewRows int
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger, previewRows int) *APIHandlers {
	return &APIHandlers{
		analytics:   analytics,
		logger:      logger,
		previewRows: previewRows,
	}
}

type boundsResponse struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

type trendResponse struct {
	Filter models.FilterSpec `json:"filter"`
	Rows   []models.TrendRow `json:"rows"`
	Chart  charts.Chart      `json:"chart"`
}

type categoryResponse struct {
	Metric models.Metric            `json:"metric"`
	Rows   []models.CategorySummary `json:"rows"`
	Chart  charts.Chart             `json:"chart"`
}

type heatmapResponse struct {
	Cells []models.HeatCell `json:"cells"`
	Hours []int             `json:"hours"`
	Chart charts.Chart      `json:"chart"`
}

type genderResponse struct {
	Rows  []models.GenderCategoryLong `json:"rows"`
	Chart charts.Chart                `json:"chart"`
}

type datasetResponse struct {
	Total int                  `json:"total"`
	Rows  []models.SalesRecord `json:"rows"`
}

func (h *APIHandlers) HandleBounds(w http.ResponseWriter, r *http.Request) {
	bounds, ok := h.analytics.Bounds()
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("The dataset has no dates"), observability.GetRequestID(r.Context()))
		return
	}

	data := boundsResponse{
		MinDate: bounds.Start.Format(time.DateOnly),
		MaxDate: bounds.End.Format(time.DateOnly),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheMaxAge})
}

func (h *APIHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	metric, start, end, err := parseTrendQuery(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	spec, rows := h.analytics.Trend(r.Context(), metric, start, end)
	data := trendResponse{
		Filter: spec,
		Rows:   rows,
		Chart:  charts.Trend(rows, spec.Metric),
	}

	errors.WriteSuccess(w, data)
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	metric, err := parseCategoryQuery(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows := h.analytics.Categories(r.Context(), metric)
	data := categoryResponse{
		Metric: metric,
		Rows:   rows,
		Chart:  charts.Category(rows, metric),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheMaxAge})
}

func (h *APIHandlers) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	cells, hours := h.analytics.Heatmap(r.Context())
	data := heatmapResponse{
		Cells: cells,
		Hours: hours,
		Chart: charts.Heatmap(cells, hours),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheMaxAge})
}

func (h *APIHandlers) HandleGender(w http.ResponseWriter, r *http.Request) {
	rows := h.analytics.GenderMix(r.Context())
	data := genderResponse{
		Rows:  rows,
		Chart: charts.Gender(rows),
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheMaxAge})
}

func (h *APIHandlers) HandleDataset(w http.ResponseWriter, r *http.Request) {
	limit, err := parsePreviewQuery(r.URL.Query(), h.previewRows)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := datasetResponse{
		Total: h.analytics.Store().Len(),
		Rows:  h.analytics.Preview(limit),
	}

	errors.WriteSuccess(w, data)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
		"records":   h.analytics.Store().Len(),
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
