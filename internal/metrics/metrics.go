package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

const namespace = "ytm_wrapped"

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	events      *prometheus.CounterVec
	reports     prometheus.Counter
	buildDur    prometheus.Histogram
	reqTotal    *prometheus.CounterVec
	reqDur      *prometheus.HistogramVec
	artworkReqs *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "History events seen, by filter verdict",
	}, []string{"verdict"})
	m.reports = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_built_total",
		Help:      "Reports built",
	})
	m.buildDur = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_build_seconds",
		Help:      "Time spent building one report",
		Buckets:   prometheus.DefBuckets,
	})
	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by handler and status code",
	}, []string{"handler", "code"})
	m.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by handler",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler"})
	m.artworkReqs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artwork_lookups_total",
		Help:      "Artwork lookups by source and result",
	}, []string{"source", "result"})

	m.registry.MustRegister(
		m.events, m.reports, m.buildDur,
		m.reqTotal, m.reqDur, m.artworkReqs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveReport records one finished build and its filter verdicts.
func (m *Metrics) ObserveReport(stats analysis.FilterStats, seconds float64) {
	for verdict, n := range stats {
		m.events.WithLabelValues(verdict.String()).Add(float64(n))
	}
	m.reports.Inc()
	m.buildDur.Observe(seconds)
}

// InstrumentHandler counts requests and their latency under name.
func (m *Metrics) InstrumentHandler(name string, h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		m.reqDur.MustCurryWith(prometheus.Labels{"handler": name}),
		promhttp.InstrumentHandlerCounter(
			m.reqTotal.MustCurryWith(prometheus.Labels{"handler": name}),
			h,
		),
	)
}

// ObserveArtwork records one artwork lookup; result is "hit", "miss" or
// "error".
func (m *Metrics) ObserveArtwork(source, result string) {
	m.artworkReqs.WithLabelValues(source, result).Inc()
}
