// Package charts turns derived dashboard tables into renderer-neutral chart
// descriptors. Descriptors carry the chart kind, field bindings, title, color
// encoding and the page region they belong to; the page script hands them to
// the charting library unchanged.
package charts

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindLine           Kind = "line"
	KindBar            Kind = "bar"
	KindDensityHeatmap Kind = "density_heatmap"
	KindStackedBar     Kind = "stacked_bar"
)

// Region names the page slot a chart renders into.
type Region string

const (
	RegionTrend    Region = "trend"
	RegionCategory Region = "category"
	RegionHeatmap  Region = "heatmap"
	RegionGender   Region = "gender"
)

// Field names bound to chart axes, as shown on the dataset columns.
const (
	FieldDate        = "Date"
	FieldProductLine = "Product line"
	FieldDayOfWeek   = "Day of Week"
	FieldHour        = "Hour"
	FieldTotal       = "Total"
	FieldGender      = "Gender"
	FieldValue       = "Value"
)

const (
	colorBlue          = "blue"
	heatmapColorScale  = "rdbu"
	horizontal         = "h"
	categoryChartTitle = "Total Sales in Each Product Line"
	heatmapChartTitle  = "Distribution of Total Transaction Value in Every Hour and Day"
	genderChartTitle   = "Comparison of Male and Female Buyers in Each Product Line"
	trendTitleTemplate = "The %s Value Over Time"
)

// Chart is a renderable chart descriptor. An empty Series (or Cells) renders
// as a blank chart.
type Chart struct {
	Kind        Kind     `json:"kind"`
	Region      Region   `json:"region"`
	Title       string   `json:"title"`
	X           string   `json:"x"`
	Y           string   `json:"y"`
	Z           string   `json:"z,omitempty"`
	Color       string   `json:"color,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Markers     bool     `json:"markers,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	ColorScale  string   `json:"color_scale,omitempty"`
	NBinsY      int      `json:"nbins_y,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Series      []Series `json:"series"`
	Cells       []Cell   `json:"cells,omitempty"`
}

// Series is one named trace. For horizontal bars X holds the value and Y the label.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Point struct {
	X any `json:"x"`
	Y any `json:"y"`
}

// Cell is one heatmap observation.
type Cell struct {
	X string  `json:"x"`
	Y int     `json:"y"`
	Z float64 `json:"z"`
}

// IsEmpty reports whether the chart has nothing to draw.
func (c Chart) IsEmpty() bool {
	if len(c.Cells) > 0 {
		return false
	}
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

func number(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func dateLabel(t time.Time) string {
	return t.Format(time.DateOnly)
}
