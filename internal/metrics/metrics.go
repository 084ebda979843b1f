// Package metrics exposes optional Prometheus instrumentation for a
// neodepends run: files tagged, resolver failures, and entity-cache hits.
// Wiring it up is opt-in — callers that never construct a Metrics keep
// paying nothing but a call to a no-op recorder.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "neodepends"
)

// Metrics holds the counters and histograms emitted over the lifetime of a
// run. The zero value is not usable; construct with New.
type Metrics struct {
	FilesTagged      *prometheus.CounterVec
	TaggingDuration  prometheus.Histogram
	ResolverFailures *prometheus.CounterVec
	ResolverDuration *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter

	registry *prometheus.Registry
}

// New builds a Metrics bound to a fresh registry, so one run's counters
// never bleed into another's (useful in tests and in-process reuse alike).
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		FilesTagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entity",
			Name:      "files_tagged_total",
			Help:      "Total number of files run through the entity tagger, by language.",
		}, []string{"lang"}),
		TaggingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "entity",
			Name:      "tagging_duration_seconds",
			Help:      "Time spent tagging a single file's entities.",
			Buckets:   prometheus.DefBuckets,
		}),
		ResolverFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "failures_total",
			Help:      "Total number of resolver factory/resolve errors, by factory name.",
		}, []string{"resolver"}),
		ResolverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "partition_duration_seconds",
			Help:      "Time spent resolving a single (revision, language) partition.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resolver"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entity",
			Name:      "cache_hits_total",
			Help:      "Total number of entity.Cache.Get calls served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entity",
			Name:      "cache_misses_total",
			Help:      "Total number of entity.Cache.Get calls that required tagging.",
		}),
		registry: reg,
	}

	reg.MustRegister(
		m.FilesTagged,
		m.TaggingDuration,
		m.ResolverFailures,
		m.ResolverDuration,
		m.CacheHits,
		m.CacheMisses,
	)
	return m
}

// ObserveTagging implements entity.Recorder.
func (m *Metrics) ObserveTagging(lang string, hit bool, d time.Duration) {
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
	m.FilesTagged.WithLabelValues(lang).Inc()
	m.TaggingDuration.Observe(d.Seconds())
}

// ObserveResolve implements resolve.Recorder.
func (m *Metrics) ObserveResolve(resolver string, failed bool, d time.Duration) {
	m.ResolverDuration.WithLabelValues(resolver).Observe(d.Seconds())
	if failed {
		m.ResolverFailures.WithLabelValues(resolver).Inc()
	}
}

// Handler returns the HTTP handler to mount at --metrics-addr.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve starts an HTTP server exposing Handler at /metrics and blocks until
// http.ListenAndServe returns an error; it has no shutdown hook.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
