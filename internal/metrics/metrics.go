package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "revision"

type Provider interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	ObserveSeedRun(duration time.Duration, calendars, seededDays int)
	IncSeedFailures()
	Handler() http.Handler
}

type PrometheusProvider struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	seedDuration    prometheus.Histogram
	seedCalendars   prometheus.Gauge
	seededDays      prometheus.Counter
	seedFailures    prometheus.Counter
}

// New возвращает провайдер с собственным реестром или заглушку, если метрики выключены
func New(enabled bool) Provider {
	if !enabled {
		return noopMetrics{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &PrometheusProvider{
		registry: registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		seedDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "day_seed_duration_seconds",
			Help:      "Duration of a day type seeding run",
			Buckets:   prometheus.DefBuckets,
		}),

		seedCalendars: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "day_seed_calendars",
			Help:      "Calendars checked by the last seeding run",
		}),

		seededDays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_seed_days_total",
			Help:      "Total number of day types filled with defaults",
		}),

		seedFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_seed_failures_total",
			Help:      "Calendars that failed to seed",
		}),
	}
}

func (m *PrometheusProvider) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, httpStatusBucket(status)).Inc()
}

func (m *PrometheusProvider) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *PrometheusProvider) ObserveSeedRun(duration time.Duration, calendars, seededDays int) {
	m.seedDuration.Observe(duration.Seconds())
	m.seedCalendars.Set(float64(calendars))
	m.seededDays.Add(float64(seededDays))
}

func (m *PrometheusProvider) IncSeedFailures() {
	m.seedFailures.Inc()
}

func (m *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(string, int)                {}
func (noopMetrics) ObserveRequestDuration(string, time.Duration) {}
func (noopMetrics) ObserveSeedRun(time.Duration, int, int)       {}
func (noopMetrics) IncSeedFailures()                             {}

func (noopMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}
