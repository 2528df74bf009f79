package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/metrics"
	"supermarket-dashboard/internal/models"
	"supermarket-dashboard/internal/observability"
)

// Analytics serves every dashboard view from one immutable dataset. Each call
// recomputes its view from the full store; nothing derived is kept between
// calls, so concurrent viewers only share read-only state.
type Analytics struct {
	store   *dataset.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAnalytics(store *dataset.Store, logger *slog.Logger, m *metrics.Metrics) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	m.SetDatasetRecords(store.Len())
	return &Analytics{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

func (a *Analytics) Store() *dataset.Store {
	return a.store
}

func (a *Analytics) Bounds() (models.DateRange, bool) {
	return a.store.Bounds()
}

// Trend resolves the trend selection and sums metric per date in the window.
// A corrected selection is logged and counted, never returned as an error.
func (a *Analytics) Trend(ctx context.Context, metric models.Metric, start, end *time.Time) (models.FilterSpec, []models.TrendRow) {
	spec, err := ResolveFilter(a.store, metric, start, end)
	if err != nil {
		reason := "unknown"
		var rangeErr *InvalidDateRangeError
		if errors.As(err, &rangeErr) {
			reason = rangeErr.Reason
		}
		a.metrics.IncClampedRange(reason)
		a.logger.WarnContext(ctx, "date range corrected",
			"error", err,
			"start", spec.Start.Format(time.DateOnly),
			"end", spec.End.Format(time.DateOnly),
			"request_id", observability.GetRequestID(ctx),
		)
	}

	var rows []models.TrendRow
	a.observe(ctx, "trend", func() int {
		rows = FilterAndTrend(a.store, spec)
		return len(rows)
	})
	return spec, rows
}

// Categories sums metric per product line, ordered for the bar chart.
func (a *Analytics) Categories(ctx context.Context, metric models.Metric) []models.CategorySummary {
	var out []models.CategorySummary
	a.observe(ctx, "categories", func() int {
		out = SortForDisplay(ByCategory(a.store, metric))
		return len(out)
	})
	return out
}

// Heatmap returns the sparse day/hour totals and the observed hour buckets.
func (a *Analytics) Heatmap(ctx context.Context) ([]models.HeatCell, []int) {
	var (
		cells []models.HeatCell
		hours []int
	)
	a.observe(ctx, "heatmap", func() int {
		cells = ByDayHour(a.store)
		hours = HourBuckets(a.store)
		return len(cells)
	})
	return cells, hours
}

// GenderMix returns the product line by gender counts in long format.
func (a *Analytics) GenderMix(ctx context.Context) []models.GenderCategoryLong {
	var out []models.GenderCategoryLong
	a.observe(ctx, "gender", func() int {
		out = ToLong(ByCategoryGender(a.store))
		return len(out)
	})
	return out
}

// Preview returns up to limit records in load order.
func (a *Analytics) Preview(limit int) []models.SalesRecord {
	return a.store.Head(limit)
}

func (a *Analytics) observe(ctx context.Context, view string, compute func() int) {
	_, span := observability.StartSpan(ctx, "recompute "+view)
	start := time.Now()

	rows := compute()

	duration := time.Since(start)
	span.SetTag("view", view)
	span.SetTag("rows", strconv.Itoa(rows))
	span.End(a.logger)

	a.metrics.ObserveRecompute(view, duration, rows)
	a.logger.DebugContext(ctx, "view recomputed",
		"view", view,
		"rows", rows,
		"duration", duration,
		"request_id", observability.GetRequestID(ctx),
	)
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	lines := make(map[string]struct{})
	genders := make(map[models.Gender]struct{})
	for rec := range a.store.All() {
		lines[rec.ProductLine] = struct{}{}
		genders[rec.Gender] = struct{}{}
	}

	stats := map[string]any{
		"record_count":  a.store.Len(),
		"source":        a.store.Source(),
		"loaded_at":     a.store.LoadedAt(),
		"product_lines": len(lines),
		"genders":       len(genders),
		"hours":         len(HourBuckets(a.store)),
	}
	if bounds, ok := a.store.Bounds(); ok {
		stats["min_date"] = bounds.Start.Format(time.DateOnly)
		stats["max_date"] = bounds.End.Format(time.DateOnly)
	}
	return stats
}
