package handlers

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"supermarket-dashboard/internal/errors"
	"supermarket-dashboard/internal/models"
)

const defaultMetric = models.MetricTotal

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		_, err := models.ParseMetric(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

type trendQuery struct {
	Metric string `query:"metric" validate:"omitempty,metric"`
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

type categoryQuery struct {
	Metric string `query:"metric" validate:"omitempty,metric"`
}

type previewQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

func parseTrendQuery(q url.Values) (models.Metric, *time.Time, *time.Time, error) {
	p := trendQuery{
		Metric: q.Get("metric"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
	if err := validate.Struct(p); err != nil {
		return "", nil, nil, validationError(err)
	}
	return metricOrDefault(p.Metric), parseDate(p.Start), parseDate(p.End), nil
}

func parseCategoryQuery(q url.Values) (models.Metric, error) {
	p := categoryQuery{Metric: q.Get("metric")}
	if err := validate.Struct(p); err != nil {
		return "", validationError(err)
	}
	return metricOrDefault(p.Metric), nil
}

// parsePreviewQuery returns the requested row limit capped at maxRows, or
// maxRows when unset.
func parsePreviewQuery(q url.Values, maxRows int) (int, error) {
	raw := q.Get("limit")
	if raw == "" {
		return maxRows, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Validation("Invalid query parameters").
			WithDetails(map[string]string{"limit": "must be an integer"})
	}
	if err := validate.Struct(previewQuery{Limit: n}); err != nil {
		return 0, validationError(err)
	}
	return min(n, maxRows), nil
}

func validationError(err error) *errors.AppError {
	details := make(map[string]string)
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = describeRule(fe)
		}
	}
	return errors.ValidationWrap(err, "Invalid query parameters").WithDetails(details)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "metric":
		return "must be one of total, quantity, gross_income"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func metricOrDefault(s string) models.Metric {
	if s == "" {
		return defaultMetric
	}
	m, err := models.ParseMetric(s)
	if err != nil {
		return defaultMetric
	}
	return m
}

// parseDate returns nil for an empty or malformed date, which leaves that
// endpoint unset.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}

func dateSignal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
