package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard's collectors. A nil *Metrics, or one built with
// a nil registerer, records nothing.
type Metrics struct {
	recomputeDuration *prometheus.HistogramVec
	recomputeRows     *prometheus.HistogramVec
	clampedRanges     *prometheus.CounterVec
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	datasetRecords    prometheus.Gauge
}

// New registers the dashboard collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		recomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_recompute_duration_seconds",
			Help:    "Time spent deriving a view from the dataset.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"view"}),
		recomputeRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_recompute_rows",
			Help:    "Rows produced by a view recomputation.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"view"}),
		clampedRanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_date_range_clamped_total",
			Help: "Requested date ranges replaced or clamped to the observed range.",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_dataset_records",
			Help: "Records held by the loaded dataset.",
		}),
	}
	reg.MustRegister(
		m.recomputeDuration,
		m.recomputeRows,
		m.clampedRanges,
		m.requests,
		m.requestDuration,
		m.datasetRecords,
	)
	return m
}

// ObserveRecompute records one derivation of the named view.
func (m *Metrics) ObserveRecompute(view string, duration time.Duration, rows int) {
	if m == nil || m.recomputeDuration == nil {
		return
	}
	view = normalizeLabel(view)
	m.recomputeDuration.WithLabelValues(view).Observe(duration.Seconds())
	m.recomputeRows.WithLabelValues(view).Observe(float64(rows))
}

func (m *Metrics) IncClampedRange(reason string) {
	if m == nil || m.clampedRanges == nil {
		return
	}
	m.clampedRanges.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil || m.datasetRecords == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
