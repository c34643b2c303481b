package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "itinerary"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// Metrics - счётчики пайплайна на собственном реестре (без глобального состояния)
type Metrics struct {
	registry *prometheus.Registry

	Searches          *prometheus.CounterVec
	ProviderQueries   *prometheus.CounterVec
	GenerationCalls   *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	PlacesPerPipeline prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Itinerary pipeline runs by result status.",
		}, []string{"status"}),
		ProviderQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_queries_total",
			Help:      "Place provider queries by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
		GenerationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_calls_total",
			Help:      "Generation backend calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end itinerary pipeline duration.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"status"}),
		PlacesPerPipeline: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "places_per_pipeline",
			Help:      "Number of deduplicated places passed to prompt building.",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		}),
	}

	m.registry.MustRegister(
		m.Searches,
		m.ProviderQueries,
		m.GenerationCalls,
		m.CacheLookups,
		m.PipelineDuration,
		m.PlacesPerPipeline,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveSearch фиксирует завершённый запуск пайплайна
func (m *Metrics) ObserveSearch(status string, duration time.Duration, places int) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(status).Inc()
	m.PipelineDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.PlacesPerPipeline.Observe(float64(places))
}

func (m *Metrics) ObserveProviderQuery(bucket, outcome string) {
	if m == nil {
		return
	}
	m.ProviderQueries.WithLabelValues(bucket, outcome).Inc()
}

func (m *Metrics) ObserveGeneration(provider, outcome string) {
	if m == nil {
		return
	}
	m.GenerationCalls.WithLabelValues(provider, outcome).Inc()
}

// ObserveCache - result: "hit" или "miss"
func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler - /metrics в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
