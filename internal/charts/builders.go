package charts

import (
	"fmt"
	"slices"

	"supermarket-dashboard/internal/models"
)

// Trend renders the filtered per-date series as a line chart with markers.
func Trend(rows []models.TrendRow, metric models.Metric) Chart {
	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		points = append(points, Point{X: dateLabel(r.Date), Y: number(r.Value)})
	}
	return Chart{
		Kind:    KindLine,
		Region:  RegionTrend,
		Title:   fmt.Sprintf(trendTitleTemplate, metric.Label()),
		X:       FieldDate,
		Y:       metric.Label(),
		Markers: true,
		Colors:  []string{colorBlue},
		Series:  []Series{{Name: metric.Label(), Points: points}},
	}
}

// Category renders per product line sums as horizontal bars, in the order given.
func Category(summaries []models.CategorySummary, metric models.Metric) Chart {
	points := make([]Point, 0, len(summaries))
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		points = append(points, Point{X: number(s.Value), Y: s.ProductLine})
		lines = append(lines, s.ProductLine)
	}
	return Chart{
		Kind:        KindBar,
		Region:      RegionCategory,
		Title:       categoryChartTitle,
		X:           metric.Label(),
		Y:           FieldProductLine,
		Orientation: horizontal,
		Colors:      []string{colorBlue},
		Categories:  lines,
		Series:      []Series{{Name: metric.Label(), Points: points}},
	}
}

// Heatmap renders day/hour totals as a density heatmap with one row bin per
// observed hour. Days on the x axis run Monday to Sunday.
func Heatmap(cells []models.HeatCell, hours []int) Chart {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, Cell{X: c.DayOfWeek.String(), Y: c.Hour, Z: number(c.TotalValue)})
	}
	days := make([]string, 0, len(models.WeekOrder))
	for _, d := range models.WeekOrder {
		days = append(days, d.String())
	}
	return Chart{
		Kind:       KindDensityHeatmap,
		Region:     RegionHeatmap,
		Title:      heatmapChartTitle,
		X:          FieldDayOfWeek,
		Y:          FieldHour,
		Z:          FieldTotal,
		ColorScale: heatmapColorScale,
		NBinsY:     len(hours),
		Categories: days,
		Series:     []Series{},
		Cells:      out,
	}
}

// Gender renders the long-format cross-tab as bars stacked by gender, one
// series per gender in first-seen order.
func Gender(rows []models.GenderCategoryLong) Chart {
	var order []models.Gender
	byGender := make(map[models.Gender][]Point)
	var lines []string
	for _, r := range rows {
		if _, ok := byGender[r.Gender]; !ok {
			order = append(order, r.Gender)
		}
		byGender[r.Gender] = append(byGender[r.Gender], Point{X: r.ProductLine, Y: r.Value})
		if !slices.Contains(lines, r.ProductLine) {
			lines = append(lines, r.ProductLine)
		}
	}

	series := make([]Series, 0, len(order))
	for _, g := range order {
		series = append(series, Series{Name: string(g), Points: byGender[g]})
	}
	return Chart{
		Kind:       KindStackedBar,
		Region:     RegionGender,
		Title:      genderChartTitle,
		X:          FieldProductLine,
		Y:          FieldValue,
		Color:      FieldGender,
		Categories: lines,
		Series:     series,
	}
}
