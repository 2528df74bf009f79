package services

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/models"
)

// ByCategory sums metric per product line over the whole dataset. Groups come
// out in first-seen order; use SortForDisplay before charting.
func ByCategory(store *dataset.Store, metric models.Metric) []models.CategorySummary {
	index := make(map[string]int)
	var out []models.CategorySummary
	for rec := range store.All() {
		i, ok := index[rec.ProductLine]
		if !ok {
			i = len(out)
			index[rec.ProductLine] = i
			out = append(out, models.CategorySummary{ProductLine: rec.ProductLine})
		}
		out[i].Value = out[i].Value.Add(metric.Value(rec))
	}
	if out == nil {
		return []models.CategorySummary{}
	}
	return out
}

// SortForDisplay orders summaries ascending by value, ties by product line.
func SortForDisplay(summaries []models.CategorySummary) []models.CategorySummary {
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, func(a, b models.CategorySummary) int {
		if c := a.Value.Cmp(b.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductLine, b.ProductLine)
	})
	return sorted
}

type dayHour struct {
	day  models.Weekday
	hour int
}

// ByDayHour sums the total field per observed (day of week, hour) pair. The
// grid is sparse: unobserved pairs are absent. Cells are ordered Monday first,
// then by hour.
func ByDayHour(store *dataset.Store) []models.HeatCell {
	sums := make(map[dayHour]decimal.Decimal)
	for rec := range store.All() {
		k := dayHour{day: rec.DayOfWeek, hour: rec.Hour}
		sums[k] = sums[k].Add(rec.Total)
	}

	cells := make([]models.HeatCell, 0, len(sums))
	for k, v := range sums {
		cells = append(cells, models.HeatCell{DayOfWeek: k.day, Hour: k.hour, TotalValue: v})
	}
	slices.SortFunc(cells, func(a, b models.HeatCell) int {
		if c := cmp.Compare(a.DayOfWeek.Position(), b.DayOfWeek.Position()); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	return cells
}

// HourBuckets returns every hour observed in the dataset, ascending. It sets
// the number of heatmap rows.
func HourBuckets(store *dataset.Store) []int {
	seen := make(map[int]struct{})
	for rec := range store.All() {
		seen[rec.Hour] = struct{}{}
	}
	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	return hours
}

// ByCategoryGender cross-tabulates record counts over every distinct product
// line and every distinct gender. The result is dense: combinations without
// records are present with a zero count. Rows are ordered by product line,
// then gender.
func ByCategoryGender(store *dataset.Store) []models.GenderCategoryCount {
	counts := make(map[string]map[models.Gender]int)
	genderSet := make(map[models.Gender]struct{})
	for rec := range store.All() {
		byGender, ok := counts[rec.ProductLine]
		if !ok {
			byGender = make(map[models.Gender]int)
			counts[rec.ProductLine] = byGender
		}
		byGender[rec.Gender]++
		genderSet[rec.Gender] = struct{}{}
	}

	lines := make([]string, 0, len(counts))
	for line := range counts {
		lines = append(lines, line)
	}
	slices.Sort(lines)

	genders := make([]models.Gender, 0, len(genderSet))
	for g := range genderSet {
		genders = append(genders, g)
	}
	slices.Sort(genders)

	out := make([]models.GenderCategoryCount, 0, len(lines)*len(genders))
	for _, line := range lines {
		for _, g := range genders {
			out = append(out, models.GenderCategoryCount{
				ProductLine: line,
				Gender:      g,
				Count:       counts[line][g],
			})
		}
	}
	return out
}
