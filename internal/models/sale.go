package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one row of the sales dataset. Hour and DayOfWeek are derived
// from the transaction timestamp when the dataset is loaded and are never
// recomputed afterwards.
type SalesRecord struct {
	Date        time.Time       `json:"date"`
	Hour        int             `json:"hour"`
	DayOfWeek   Weekday         `json:"day_of_week"`
	ProductLine string          `json:"product_line"`
	Gender      Gender          `json:"gender"`
	Total       decimal.Decimal `json:"total"`
	Quantity    int             `json:"quantity"`
	GrossIncome decimal.Decimal `json:"gross_income"`
}

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// Weekday mirrors time.Weekday but encodes as its English name.
type Weekday time.Weekday

// WeekOrder lists the days Monday first, the order used on every chart axis.
var WeekOrder = []Weekday{
	Weekday(time.Monday),
	Weekday(time.Tuesday),
	Weekday(time.Wednesday),
	Weekday(time.Thursday),
	Weekday(time.Friday),
	Weekday(time.Saturday),
	Weekday(time.Sunday),
}

func (d Weekday) String() string {
	return time.Weekday(d).String()
}

// Position returns the zero-based index of d in WeekOrder.
func (d Weekday) Position() int {
	return (int(d) + 6) % 7
}

func (d Weekday) MarshalText() ([]byte, error) {
	if d < 0 || d > 6 {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday accepts full ("Saturday") and abbreviated ("Sat") day names.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) >= 3 {
		for _, d := range WeekOrder {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", s)
}

// CivilDate drops the time-of-day and zone from t, keeping its calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
