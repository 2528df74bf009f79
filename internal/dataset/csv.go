package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"supermarket-dashboard/internal/models"
)

const (
	batchSize  = 2000
	maxWorkers = 8
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM"}

// columns maps schema fields to CSV column positions; -1 marks an absent column.
type columns struct {
	date, hour, dayOfWeek, clock int
	productLine, gender          int
	total, quantity, grossIncome int
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[name] = i
	}
	lookup := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		date:        lookup("date"),
		hour:        lookup("hour"),
		dayOfWeek:   lookup("day of week"),
		clock:       lookup("time"),
		productLine: lookup("product line"),
		gender:      lookup("gender"),
		total:       lookup("total"),
		quantity:    lookup("quantity"),
		grossIncome: lookup("gross income"),
	}

	required := []struct {
		name string
		pos  int
	}{
		{"Date", cols.date},
		{"Product line", cols.productLine},
		{"Gender", cols.gender},
		{"Total", cols.total},
		{"Quantity", cols.quantity},
		{"Gross Income", cols.grossIncome},
	}
	for _, c := range required {
		if c.pos < 0 {
			return columns{}, fmt.Errorf("%w: %q", ErrMissingColumn, c.name)
		}
	}
	if cols.hour < 0 && cols.clock < 0 {
		return columns{}, fmt.Errorf("%w: %q (or %q)", ErrMissingColumn, "Hour", "Time")
	}
	return cols, nil
}

func decodeCSV(ctx context.Context, r io.Reader) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	records := make([]models.SalesRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := cols.parse(rows[i])
				if err != nil {
					// +2: one for the header, one for 1-based line numbers
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c columns) parse(row []string) (models.SalesRecord, error) {
	field := func(pos int) string {
		return strings.TrimSpace(row[pos])
	}

	stamp, err := parseTimestamp(field(c.date))
	if err != nil {
		return models.SalesRecord{}, err
	}

	var hour int
	if c.hour >= 0 {
		hour, err = strconv.Atoi(field(c.hour))
		if err != nil {
			return models.SalesRecord{}, fmt.Errorf("hour: %w", err)
		}
	} else {
		clock, err := parseClock(field(c.clock))
		if err != nil {
			return models.SalesRecord{}, err
		}
		hour = clock.Hour()
	}

	day := models.Weekday(stamp.Weekday())
	if c.dayOfWeek >= 0 {
		day, err = models.ParseWeekday(field(c.dayOfWeek))
		if err != nil {
			return models.SalesRecord{}, err
		}
	}

	gender, err := models.ParseGender(field(c.gender))
	if err != nil {
		return models.SalesRecord{}, err
	}

	total, err := decimal.NewFromString(field(c.total))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("total: %w", err)
	}

	quantity, err := strconv.Atoi(field(c.quantity))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("quantity: %w", err)
	}

	grossIncome, err := decimal.NewFromString(field(c.grossIncome))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("gross income: %w", err)
	}

	rec := models.SalesRecord{
		Date:        stamp,
		Hour:        hour,
		DayOfWeek:   day,
		ProductLine: field(c.productLine),
		Gender:      gender,
		Total:       total,
		Quantity:    quantity,
		GrossIncome: grossIncome,
	}
	return rec, validateRecord(rec)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseClock(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// validateRecord enforces the schema invariants shared by every codec.
func validateRecord(r models.SalesRecord) error {
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("hour %d out of range", r.Hour)
	}
	if h, m, sec := r.Date.Clock(); h+m+sec+r.Date.Nanosecond() > 0 && h != r.Hour {
		return fmt.Errorf("hour %d does not match timestamp %s", r.Hour, r.Date.Format(time.DateTime))
	}
	if got := models.Weekday(r.Date.Weekday()); got != r.DayOfWeek {
		return fmt.Errorf("day of week %s does not match date %s (%s)", r.DayOfWeek, r.Date.Format(time.DateOnly), got)
	}
	if r.ProductLine == "" {
		return fmt.Errorf("empty product line")
	}
	if _, err := models.ParseGender(string(r.Gender)); err != nil {
		return err
	}
	return nil
}
