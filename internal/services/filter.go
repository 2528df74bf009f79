package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/models"
)

// Reasons reported by InvalidDateRangeError.
const (
	ReasonSingleEndpoint = "single_endpoint"
	ReasonInverted       = "inverted"
	ReasonOutOfRange     = "out_of_range"
)

// InvalidDateRangeError describes a requested date range that could not be
// used as given. It accompanies a usable replacement range and is never fatal.
type InvalidDateRangeError struct {
	Start  *time.Time
	End    *time.Time
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range [%s, %s]: %s", formatEndpoint(e.Start), formatEndpoint(e.End), e.Reason)
}

func formatEndpoint(t *time.Time) string {
	if t == nil {
		return "unset"
	}
	return t.Format(time.DateOnly)
}

// ResolveRange turns a user selection into a closed range inside bounds.
//
// No selection yields bounds. A single endpoint or an inverted pair also
// yields bounds, together with an *InvalidDateRangeError. Endpoints outside
// bounds are clamped individually; if nothing of the window survives the
// clamp, bounds are used.
func ResolveRange(bounds models.DateRange, start, end *time.Time) (models.DateRange, error) {
	switch {
	case start == nil && end == nil:
		return bounds, nil
	case start == nil || end == nil:
		return bounds, &InvalidDateRangeError{Start: start, End: end, Reason: ReasonSingleEndpoint}
	}

	requested := models.DateRange{Start: models.CivilDate(*start), End: models.CivilDate(*end)}
	if requested.Start.After(requested.End) {
		return bounds, &InvalidDateRangeError{Start: start, End: end, Reason: ReasonInverted}
	}

	clamped := requested
	if clamped.Start.Before(bounds.Start) {
		clamped.Start = bounds.Start
	}
	if clamped.End.After(bounds.End) {
		clamped.End = bounds.End
	}
	if clamped.Start.After(clamped.End) {
		return bounds, &InvalidDateRangeError{Start: start, End: end, Reason: ReasonOutOfRange}
	}
	if !clamped.Equal(requested) {
		return clamped, &InvalidDateRangeError{Start: start, End: end, Reason: ReasonOutOfRange}
	}
	return clamped, nil
}

// ResolveFilter builds the trend FilterSpec for metric and the selected
// endpoints against the store's observed dates. The returned spec is always
// usable; a non-nil error only reports what was corrected.
func ResolveFilter(store *dataset.Store, metric models.Metric, start, end *time.Time) (models.FilterSpec, error) {
	spec := models.FilterSpec{Metric: metric}
	bounds, ok := store.Bounds()
	if !ok {
		return spec, nil
	}
	r, err := ResolveRange(bounds, start, end)
	spec.DateRange = r
	return spec, err
}

// FilterAndTrend keeps the records dated within spec's closed range and sums
// spec.Metric per date. Rows are ordered by date ascending; dates without
// records are absent rather than zero.
func FilterAndTrend(store *dataset.Store, spec models.FilterSpec) []models.TrendRow {
	sums := make(map[time.Time]decimal.Decimal)
	for rec := range store.All() {
		if !spec.Contains(rec.Date) {
			continue
		}
		sums[rec.Date] = sums[rec.Date].Add(spec.Metric.Value(rec))
	}

	rows := make([]models.TrendRow, 0, len(sums))
	for d, v := range sums {
		rows = append(rows, models.TrendRow{Date: d, Value: v})
	}
	slices.SortFunc(rows, func(a, b models.TrendRow) int {
		return a.Date.Compare(b.Date)
	})
	return rows
}
