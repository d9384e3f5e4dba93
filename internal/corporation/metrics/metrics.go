// Package metrics provides Prometheus metrics for corporation verification.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Metrics struct {
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	CacheLookupDurationSeconds *prometheus.HistogramVec

	LookupDurationSeconds prometheus.Histogram
	LookupsTotal          *prometheus.CounterVec
	RetriesTotal          prometheus.Counter
	SharedLookupsTotal    prometheus.Counter
}

// New registers the verification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_corporation_cache_hits_total",
			Help: "Total number of corporation lookup cache hits by backend",
		}, []string{"backend"}),

		CacheMissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_corporation_cache_misses_total",
			Help: "Total number of corporation lookup cache misses by backend",
		}, []string{"backend"}),

		CacheLookupDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboard_corporation_cache_lookup_duration_seconds",
			Help:    "Duration of cache reads by backend",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
		}, []string{"backend"}),

		LookupDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_corporation_lookup_duration_seconds",
			Help:    "Duration of registry lookups including the retry",
			Buckets: prometheus.DefBuckets,
		}),

		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_corporation_lookups_total",
			Help: "Registry lookups by outcome",
		}, []string{"outcome"}),

		RetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_corporation_lookup_retries_total",
			Help: "Registry lookups retried after a failed first attempt",
		}),

		SharedLookupsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_corporation_lookups_shared_total",
			Help: "Verifications answered by a concurrent identical lookup",
		}),
	}
}

func (m *Metrics) RecordCacheHit(backend string, durationSeconds float64) {
	m.CacheHitsTotal.WithLabelValues(backend).Inc()
	m.CacheLookupDurationSeconds.WithLabelValues(backend).Observe(durationSeconds)
}

func (m *Metrics) RecordCacheMiss(backend string, durationSeconds float64) {
	m.CacheMissesTotal.WithLabelValues(backend).Inc()
	m.CacheLookupDurationSeconds.WithLabelValues(backend).Observe(durationSeconds)
}

// RecordLookup records one registry lookup, retry included, by outcome.
func (m *Metrics) RecordLookup(outcome string, durationSeconds float64) {
	m.LookupsTotal.WithLabelValues(outcome).Inc()
	m.LookupDurationSeconds.Observe(durationSeconds)
}

func (m *Metrics) IncrementRetries() {
	m.RetriesTotal.Inc()
}

func (m *Metrics) IncrementShared() {
	m.SharedLookupsTotal.Inc()
}

// CacheHitRate is hits over total, or 0 with no traffic.
func CacheHitRate(hits, misses float64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return hits / total
}
