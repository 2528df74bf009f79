package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Contains reports whether d falls within [Start, End], both ends inclusive.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// FilterSpec is the trend section's selection: one metric over a date window.
type FilterSpec struct {
	Metric Metric `json:"metric"`
	DateRange
}

type TrendRow struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type CategorySummary struct {
	ProductLine string          `json:"product_line"`
	Value       decimal.Decimal `json:"value"`
}

type HeatCell struct {
	DayOfWeek  Weekday         `json:"day_of_week"`
	Hour       int             `json:"hour"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// GenderCategoryCount is one cell of the product line by gender cross-tab.
type GenderCategoryCount struct {
	ProductLine string `json:"product_line"`
	Gender      Gender `json:"gender"`
	Count       int    `json:"count"`
}

// GenderCategoryLong is the long-format row consumed by the stacked bar chart.
type GenderCategoryLong struct {
	ProductLine string `json:"product_line"`
	Gender      Gender `json:"gender"`
	Value       int    `json:"value"`
}
