package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Metric selects the numeric field a view aggregates.
type Metric string

const (
	MetricTotal       Metric = "total"
	MetricQuantity    Metric = "quantity"
	MetricGrossIncome Metric = "gross_income"
)

// Metrics is the fixed option list offered by both metric selectors.
var Metrics = []Metric{MetricTotal, MetricQuantity, MetricGrossIncome}

// ParseMetric accepts wire names ("gross_income") and display labels
// ("Gross Income"), case-insensitively.
func ParseMetric(s string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for _, m := range Metrics {
		if key == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

func (m Metric) Valid() bool {
	_, err := ParseMetric(string(m))
	return err == nil
}

// Label is the human-readable name interpolated into chart titles.
func (m Metric) Label() string {
	switch m {
	case MetricTotal:
		return "Total"
	case MetricQuantity:
		return "Quantity"
	case MetricGrossIncome:
		return "Gross Income"
	default:
		return string(m)
	}
}

// Value extracts the field named by m from r.
func (m Metric) Value(r SalesRecord) decimal.Decimal {
	switch m {
	case MetricQuantity:
		return decimal.NewFromInt(int64(r.Quantity))
	case MetricGrossIncome:
		return r.GrossIncome
	default:
		return r.Total
	}
}
