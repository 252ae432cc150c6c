package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	KeywordsTotal       *prometheus.CounterVec
	MentionsTotal       *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them on the promhttp handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		KeywordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "serp_keywords_processed_total",
			Help: "The total number of keywords processed",
		}, []string{"status"}), // "scanned", "failed"
		MentionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "serp_brand_mentions_total",
			Help: "Brand mentions found, by base SERP feature",
		}, []string{"feature"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "serp_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g., 'fetch', 'provider', 'decode', 'cache'
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "serp_fetch_duration_seconds",
			Help:    "Duration of payload fetches.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}), // "provider", "cache"
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) IncKeyword(status string) {
	m.KeywordsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) AddMentions(feature string, n int) {
	m.MentionsTotal.WithLabelValues(feature).Add(float64(n))
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveFetch(source string, seconds float64) {
	m.FetchDuration.WithLabelValues(source).Observe(seconds)
}
