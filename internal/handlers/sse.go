package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"supermarket-dashboard/internal/charts"
	"supermarket-dashboard/internal/models"
	"supermarket-dashboard/internal/observability"
	"supermarket-dashboard/internal/services"
)

var previewTableTemplate = template.Must(template.New("previewTable").Parse(`
<div id="preview-content">
<p class="preview-caption">Showing {{len .Rows}} of {{.Total}} transactions</p>
<table class="modern-table">
<thead><tr><th>Date</th><th>Hour</th><th>Day of Week</th><th>Product line</th><th>Gender</th><th>Total</th><th>Quantity</th><th>Gross Income</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date.Format "2006-01-02"}}</td>
<td>{{.Hour}}</td>
<td>{{.DayOfWeek}}</td>
<td><span class="category-badge">{{.ProductLine}}</span></td>
<td>{{.Gender}}</td>
<td><strong>{{.Total.StringFixed 2}}</strong></td>
<td>{{.Quantity}}</td>
<td>{{.GrossIncome.StringFixed 2}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// trendSignals and categorySignals are the client state read from the
// datastar query parameter.
type trendSignals struct {
	TrendMetric string `json:"trendMetric"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type categorySignals struct {
	CategoryMetric string `json:"categoryMetric"`
}

type SSEHandlers struct {
	analytics   *services.Analytics
	logger      *slog.Logger
	previewRows int
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger, previewRows int) *SSEHandlers {
	return &SSEHandlers{
		analytics:   analytics,
		logger:      logger,
		previewRows: previewRows,
	}
}

type previewData struct {
	Rows  []models.SalesRecord
	Total int
}

func (h *SSEHandlers) renderPreviewTable() (string, error) {
	var buf strings.Builder

	data := previewData{
		Rows:  h.analytics.Preview(h.previewRows),
		Total: h.analytics.Store().Len(),
	}
	err := previewTableTemplate.Execute(&buf, data)
	return buf.String(), err
}

// readTrendSignals never fails the request. Unreadable signals fall back to
// the default selection; an invalid field falls back on its own when the
// patch is built.
func (h *SSEHandlers) readTrendSignals(r *http.Request) trendSignals {
	var signals trendSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read trend signals", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return trendSignals{}
	}
	if err := validate.Struct(trendQuery{Metric: signals.TrendMetric, Start: signals.StartDate, End: signals.EndDate}); err != nil {
		h.logger.Warn("invalid trend signals, defaulting invalid fields",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
	return signals
}

func (h *SSEHandlers) readCategorySignals(r *http.Request) categorySignals {
	var signals categorySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read category signals", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return categorySignals{}
	}
	if err := validate.Struct(categoryQuery{Metric: signals.CategoryMetric}); err != nil {
		h.logger.Warn("invalid category signals, defaulting metric",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
	return signals
}

func (h *SSEHandlers) trendPatch(ctx context.Context, signals trendSignals) map[string]any {
	spec, rows := h.analytics.Trend(ctx, metricOrDefault(signals.TrendMetric), parseDate(signals.StartDate), parseDate(signals.EndDate))
	return map[string]any{
		"trendMetric": spec.Metric,
		"startDate":   dateSignal(spec.Start),
		"endDate":     dateSignal(spec.End),
		"trendChart":  charts.Trend(rows, spec.Metric),
	}
}

func (h *SSEHandlers) categoryPatch(ctx context.Context, signals categorySignals) map[string]any {
	metric := metricOrDefault(signals.CategoryMetric)
	rows := h.analytics.Categories(ctx, metric)
	return map[string]any{
		"categoryMetric": metric,
		"categoryChart":  charts.Category(rows, metric),
	}
}

func (h *SSEHandlers) heatmapPatch(ctx context.Context) map[string]any {
	cells, hours := h.analytics.Heatmap(ctx)
	return map[string]any{"heatmapChart": charts.Heatmap(cells, hours)}
}

func (h *SSEHandlers) genderPatch(ctx context.Context) map[string]any {
	return map[string]any{"genderChart": charts.Gender(h.analytics.GenderMix(ctx))}
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch signals", "error", err)
	}
}

func (h *SSEHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	signals := h.readTrendSignals(r)
	sse := datastar.NewSSE(w, r)

	h.patchSignals(sse, h.trendPatch(r.Context(), signals))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	signals := h.readCategorySignals(r)
	sse := datastar.NewSSE(w, r)

	h.patchSignals(sse, h.categoryPatch(r.Context(), signals))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	h.patchSignals(sse, h.heatmapPatch(r.Context()))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleGender(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	h.patchSignals(sse, h.genderPatch(r.Context()))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderPreviewTable()
	if err != nil {
		h.logger.Error("render preview table", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	trend := h.readTrendSignals(r)
	category := h.readCategorySignals(r)
	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	html, err := h.renderPreviewTable()
	if err != nil {
		h.logger.Error("render preview table", "error", err)
		return
	}
	sse.PatchElements(html)

	// Send all signals in one call
	all := h.trendPatch(ctx, trend)
	for _, patch := range []map[string]any{
		h.categoryPatch(ctx, category),
		h.heatmapPatch(ctx),
		h.genderPatch(ctx),
	} {
		maps.Copy(all, patch)
	}
	h.patchSignals(sse, all)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
