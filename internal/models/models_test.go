package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"total", MetricTotal, false},
		{"Total", MetricTotal, false},
		{" quantity ", MetricQuantity, false},
		{"gross_income", MetricGrossIncome, false},
		{"Gross Income", MetricGrossIncome, false},
		{"gross-income", MetricGrossIncome, false},
		{"revenue", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMetric(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetric_LabelAndValue(t *testing.T) {
	rec := SalesRecord{
		Total:       decimal.RequireFromString("548.97"),
		Quantity:    7,
		GrossIncome: decimal.RequireFromString("26.14"),
	}

	assert.Equal(t, "Gross Income", MetricGrossIncome.Label())
	assert.True(t, MetricTotal.Value(rec).Equal(rec.Total))
	assert.True(t, MetricQuantity.Value(rec).Equal(decimal.NewFromInt(7)))
	assert.True(t, MetricGrossIncome.Value(rec).Equal(rec.GrossIncome))
	assert.False(t, Metric("revenue").Valid())
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender(" female")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	_, err = ParseGender("other")
	assert.Error(t, err)
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, 0, Weekday(time.Monday).Position())
	assert.Equal(t, 6, Weekday(time.Sunday).Position())

	for i, d := range WeekOrder {
		assert.Equal(t, i, d.Position(), d.String())
	}

	d, err := ParseWeekday("sat")
	require.NoError(t, err)
	assert.Equal(t, Weekday(time.Saturday), d)

	_, err = ParseWeekday("Funday")
	assert.Error(t, err)

	_, err = Weekday(9).MarshalText()
	assert.Error(t, err)
}

func TestSalesRecord_JSONUsesDayNames(t *testing.T) {
	rec := SalesRecord{
		Date:        time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC),
		Hour:        13,
		DayOfWeek:   Weekday(time.Saturday),
		ProductLine: "Health and beauty",
		Gender:      GenderMale,
		Total:       decimal.RequireFromString("548.97"),
		Quantity:    7,
		GrossIncome: decimal.RequireFromString("26.14"),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"day_of_week":"Saturday"`)

	var back SalesRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec.DayOfWeek, back.DayOfWeek)
	assert.True(t, back.Total.Equal(rec.Total))
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	r := DateRange{
		Start: time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 1, 8, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.End.AddDate(0, 0, 1)))
	assert.False(t, r.Contains(r.Start.AddDate(0, 0, -1)))
}

func TestCivilDate(t *testing.T) {
	loc := time.FixedZone("WITA", 8*3600)
	got := CivilDate(time.Date(2019, 3, 8, 22, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2019, 3, 8, 0, 0, 0, 0, time.UTC), got)
}
