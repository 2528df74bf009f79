package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func record(d time.Time, hour int, line string, g models.Gender, total string, qty int, gross string) models.SalesRecord {
	return models.SalesRecord{
		Date:        d,
		Hour:        hour,
		DayOfWeek:   models.Weekday(d.Weekday()),
		ProductLine: line,
		Gender:      g,
		Total:       decimal.RequireFromString(total),
		Quantity:    qty,
		GrossIncome: decimal.RequireFromString(gross),
	}
}

// sampleStore spans 2019-01-05 (Sat) to 2019-01-09 (Wed) with a gap on 01-07.
func sampleStore() *dataset.Store {
	return dataset.New([]models.SalesRecord{
		record(day(2019, 1, 5), 13, "Health and beauty", models.GenderMale, "50", 2, "5"),
		record(day(2019, 1, 5), 13, "Health and beauty", models.GenderFemale, "30", 1, "3"),
		record(day(2019, 1, 6), 10, "Sports and travel", models.GenderFemale, "120.50", 4, "6.02"),
		record(day(2019, 1, 8), 19, "Food and beverages", models.GenderFemale, "75.25", 3, "3.76"),
		record(day(2019, 1, 8), 10, "Sports and travel", models.GenderFemale, "10", 1, "0.5"),
		record(day(2019, 1, 9), 13, "Health and beauty", models.GenderFemale, "44", 2, "2.2"),
	})
}

func TestFilterAndTrend_TwoRecordExample(t *testing.T) {
	store := dataset.New([]models.SalesRecord{
		record(day(2019, 1, 5), 13, "Health", models.GenderMale, "50", 2, "5"),
		record(day(2019, 1, 5), 13, "Health", models.GenderFemale, "30", 1, "3"),
	})

	spec := models.FilterSpec{
		Metric:    models.MetricTotal,
		DateRange: models.DateRange{Start: day(2019, 1, 5), End: day(2019, 1, 5)},
	}
	rows := FilterAndTrend(store, spec)

	require.Len(t, rows, 1)
	assert.Equal(t, day(2019, 1, 5), rows[0].Date)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(80)), "got %s", rows[0].Value)

	cross := ByCategoryGender(store)
	assert.ElementsMatch(t, []models.GenderCategoryCount{
		{ProductLine: "Health", Gender: models.GenderMale, Count: 1},
		{ProductLine: "Health", Gender: models.GenderFemale, Count: 1},
	}, cross)
}

func TestFilterAndTrend_ClosedIntervalAndGaps(t *testing.T) {
	store := sampleStore()
	spec := models.FilterSpec{
		Metric:    models.MetricQuantity,
		DateRange: models.DateRange{Start: day(2019, 1, 6), End: day(2019, 1, 8)},
	}

	rows := FilterAndTrend(store, spec)

	require.Len(t, rows, 2, "2019-01-07 has no records and must be absent")
	assert.Equal(t, day(2019, 1, 6), rows[0].Date)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, day(2019, 1, 8), rows[1].Date)
	assert.True(t, rows[1].Value.Equal(decimal.NewFromInt(4)))
	for _, r := range rows {
		assert.True(t, spec.Contains(r.Date))
	}
}

func TestFilterAndTrend_SumInvariantOverFullWindow(t *testing.T) {
	store := sampleStore()
	bounds, ok := store.Bounds()
	require.True(t, ok)

	for _, metric := range models.Metrics {
		t.Run(string(metric), func(t *testing.T) {
			rows := FilterAndTrend(store, models.FilterSpec{Metric: metric, DateRange: bounds})

			var fromTrend, fromStore decimal.Decimal
			for _, r := range rows {
				fromTrend = fromTrend.Add(r.Value)
			}
			for rec := range store.All() {
				fromStore = fromStore.Add(metric.Value(rec))
			}
			assert.True(t, fromTrend.Equal(fromStore), "trend %s != store %s", fromTrend, fromStore)
			assert.LessOrEqual(t, len(rows), 4)
		})
	}
}

func TestFilterAndTrend_Idempotent(t *testing.T) {
	store := sampleStore()
	spec := models.FilterSpec{
		Metric:    models.MetricGrossIncome,
		DateRange: models.DateRange{Start: day(2019, 1, 5), End: day(2019, 1, 9)},
	}

	assert.Equal(t, FilterAndTrend(store, spec), FilterAndTrend(store, spec))
}

func TestFilterAndTrend_SingleDayAtBothBounds(t *testing.T) {
	store := dataset.New([]models.SalesRecord{
		record(day(2019, 2, 1), 9, "Fashion accessories", models.GenderFemale, "10", 1, "1"),
		record(day(2019, 2, 1), 20, "Fashion accessories", models.GenderMale, "15", 1, "1"),
		record(day(2019, 2, 1), 11, "Home and lifestyle", models.GenderMale, "5", 1, "1"),
	})
	bounds, _ := store.Bounds()
	require.True(t, bounds.Start.Equal(bounds.End))

	rows := FilterAndTrend(store, models.FilterSpec{Metric: models.MetricTotal, DateRange: bounds})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(30)))
}

func TestFilterAndTrend_GroupsTimestampedRecordsByDay(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2019, 1, 5, hour, 0, 0, 0, time.UTC)
	}
	store := dataset.New([]models.SalesRecord{
		record(at(10), 10, "Health and beauty", models.GenderMale, "50", 2, "5"),
		record(at(15), 15, "Health and beauty", models.GenderFemale, "30", 1, "3"),
	})

	rows := FilterAndTrend(store, models.FilterSpec{
		Metric:    models.MetricTotal,
		DateRange: models.DateRange{Start: day(2019, 1, 5), End: day(2019, 1, 5)},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, day(2019, 1, 5), rows[0].Date)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(80)), "got %s", rows[0].Value)
}

func TestFilterAndTrend_EmptyWindow(t *testing.T) {
	rows := FilterAndTrend(sampleStore(), models.FilterSpec{
		Metric:    models.MetricTotal,
		DateRange: models.DateRange{Start: day(2019, 1, 7), End: day(2019, 1, 7)},
	})

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestResolveRange(t *testing.T) {
	bounds := models.DateRange{Start: day(2019, 1, 1), End: day(2019, 3, 30)}

	tests := []struct {
		name       string
		start, end *time.Time
		want       models.DateRange
		reason     string
	}{
		{"no selection", nil, nil, bounds, ""},
		{"valid window", ptr(day(2019, 2, 1)), ptr(day(2019, 2, 10)), models.DateRange{Start: day(2019, 2, 1), End: day(2019, 2, 10)}, ""},
		{"single day", ptr(day(2019, 2, 1)), ptr(day(2019, 2, 1)), models.DateRange{Start: day(2019, 2, 1), End: day(2019, 2, 1)}, ""},
		{"time of day ignored", ptr(time.Date(2019, 2, 1, 18, 30, 0, 0, time.UTC)), ptr(day(2019, 2, 1)), models.DateRange{Start: day(2019, 2, 1), End: day(2019, 2, 1)}, ""},
		{"start only", ptr(day(2019, 2, 1)), nil, bounds, ReasonSingleEndpoint},
		{"end only", nil, ptr(day(2019, 2, 1)), bounds, ReasonSingleEndpoint},
		{"inverted", ptr(day(2019, 2, 10)), ptr(day(2019, 2, 1)), bounds, ReasonInverted},
		{"start before min", ptr(day(2018, 12, 1)), ptr(day(2019, 1, 15)), models.DateRange{Start: day(2019, 1, 1), End: day(2019, 1, 15)}, ReasonOutOfRange},
		{"end after max", ptr(day(2019, 3, 1)), ptr(day(2019, 5, 1)), models.DateRange{Start: day(2019, 3, 1), End: day(2019, 3, 30)}, ReasonOutOfRange},
		{"entirely outside", ptr(day(2020, 1, 1)), ptr(day(2020, 2, 1)), bounds, ReasonOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRange(bounds, tt.start, tt.end)

			assert.True(t, got.Equal(tt.want), "got [%s, %s]", got.Start, got.End)
			assert.False(t, got.Start.After(got.End))
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var rangeErr *InvalidDateRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.reason, rangeErr.Reason)
		})
	}
}

func TestResolveFilter_EmptyStore(t *testing.T) {
	spec, err := ResolveFilter(dataset.New(nil), models.MetricTotal, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, models.MetricTotal, spec.Metric)
	assert.Empty(t, FilterAndTrend(dataset.New(nil), spec))
}

func TestByCategory(t *testing.T) {
	store := sampleStore()

	got := ByCategory(store, models.MetricTotal)

	require.Len(t, got, 3)
	assert.Equal(t, "Health and beauty", got[0].ProductLine, "groups keep first-seen order")
	assert.True(t, got[0].Value.Equal(decimal.NewFromInt(124)))
	assert.Equal(t, "Sports and travel", got[1].ProductLine)
	assert.True(t, got[1].Value.Equal(decimal.RequireFromString("130.50")))
	assert.Equal(t, "Food and beverages", got[2].ProductLine)
}

func TestByCategory_IgnoresDateWindow(t *testing.T) {
	store := sampleStore()
	var all decimal.Decimal
	for _, s := range ByCategory(store, models.MetricQuantity) {
		all = all.Add(s.Value)
	}
	assert.True(t, all.Equal(decimal.NewFromInt(13)))
}

func TestSortForDisplay(t *testing.T) {
	in := []models.CategorySummary{
		{ProductLine: "Sports and travel", Value: decimal.NewFromInt(10)},
		{ProductLine: "Electronic accessories", Value: decimal.NewFromInt(5)},
		{ProductLine: "Bags", Value: decimal.NewFromInt(10)},
	}

	got := SortForDisplay(in)

	assert.Equal(t, []string{"Electronic accessories", "Bags", "Sports and travel"},
		[]string{got[0].ProductLine, got[1].ProductLine, got[2].ProductLine})
	assert.Equal(t, "Sports and travel", in[0].ProductLine, "input must not be reordered")
}

func TestByDayHour(t *testing.T) {
	store := sampleStore()

	cells := ByDayHour(store)

	// Sat 13 (50+30), Sun 10, Tue 19, Tue 10, Wed 13
	require.Len(t, cells, 5)
	assert.Equal(t, models.Weekday(time.Tuesday), cells[0].DayOfWeek)
	assert.Equal(t, 10, cells[0].Hour)
	assert.Equal(t, models.Weekday(time.Tuesday), cells[1].DayOfWeek)
	assert.Equal(t, 19, cells[1].Hour)
	assert.Equal(t, models.Weekday(time.Wednesday), cells[2].DayOfWeek)
	assert.Equal(t, models.Weekday(time.Saturday), cells[3].DayOfWeek)
	assert.True(t, cells[3].TotalValue.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, models.Weekday(time.Sunday), cells[4].DayOfWeek)

	assert.Equal(t, []int{10, 13, 19}, HourBuckets(store))
}

func TestByCategoryGender_Dense(t *testing.T) {
	store := sampleStore()

	cross := ByCategoryGender(store)

	// 3 product lines x 2 genders even though only Health has a male buyer
	require.Len(t, cross, 6)
	want := []models.GenderCategoryCount{
		{ProductLine: "Food and beverages", Gender: models.GenderFemale, Count: 1},
		{ProductLine: "Food and beverages", Gender: models.GenderMale, Count: 0},
		{ProductLine: "Health and beauty", Gender: models.GenderFemale, Count: 2},
		{ProductLine: "Health and beauty", Gender: models.GenderMale, Count: 1},
		{ProductLine: "Sports and travel", Gender: models.GenderFemale, Count: 2},
		{ProductLine: "Sports and travel", Gender: models.GenderMale, Count: 0},
	}
	assert.Equal(t, want, cross)
}

func TestByCategoryGender_SingleGenderDataset(t *testing.T) {
	store := dataset.New([]models.SalesRecord{
		record(day(2019, 1, 5), 13, "A", models.GenderFemale, "1", 1, "1"),
		record(day(2019, 1, 5), 13, "B", models.GenderFemale, "1", 1, "1"),
	})

	assert.Len(t, ByCategoryGender(store), 2)
	assert.Empty(t, ByCategoryGender(dataset.New(nil)))
}

func TestToLong(t *testing.T) {
	wide := ByCategoryGender(sampleStore())

	long := ToLong(wide)

	require.Len(t, long, len(wide))
	for i := range wide {
		assert.Equal(t, wide[i].ProductLine, long[i].ProductLine)
		assert.Equal(t, wide[i].Gender, long[i].Gender)
		assert.Equal(t, wide[i].Count, long[i].Value)
	}
	assert.Empty(t, ToLong(nil))
}
