// Package metrics exposes prometheus instruments for the reconciliation pipeline.
// Every method is safe on a nil *Metrics, so components run without instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for pipeline runs, catalog lookups and geo resolution.
type Metrics struct {
	// Pipeline runs by outcome: "ok", "schema_fallback", "error"
	Runs *prometheus.CounterVec

	// Per-stage latencies
	StageLatency *prometheus.HistogramVec

	// Sanitizer issues by kind
	SanitizeIssues *prometheus.CounterVec

	// Evidence fallback rules that filled a field
	FallbackFills *prometheus.CounterVec

	// Catalog lookups by catalog and outcome: "hit", "miss", "error"
	CatalogLookups *prometheus.CounterVec

	// Geo lookups by outcome: "hit", "miss", "error"
	GeoLookups *prometheus.CounterVec

	// Reference table loads by tier ("memory", "redis", "source") and outcome
	GeoTableLoads *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry. Call it once per process.
func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		}, []string{"outcome"}),

		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minutas_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"stage"}),

		SanitizeIssues: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_sanitize_issues_total",
			Help: "Model output fragments dropped or coerced by the sanitizer, by kind",
		}, []string{"kind"}),

		FallbackFills: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_fallback_fills_total",
			Help: "Fields filled from evidence snippets, by rule",
		}, []string{"rule"}),

		CatalogLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_catalog_lookups_total",
			Help: "Reference catalog lookups by catalog and outcome",
		}, []string{"catalog", "outcome"}),

		GeoLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_geo_lookups_total",
			Help: "Location code lookups by outcome",
		}, []string{"outcome"}),

		GeoTableLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minutas_geo_table_loads_total",
			Help: "Location reference table loads by tier and outcome",
		}, []string{"tier", "outcome"}),
	}
}

// IncRun records a finished pipeline run.
func (m *Metrics) IncRun(outcome string) {
	if m != nil {
		m.Runs.WithLabelValues(outcome).Inc()
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// AddSanitizeIssue counts one sanitizer issue.
func (m *Metrics) AddSanitizeIssue(kind string) {
	if m != nil {
		m.SanitizeIssues.WithLabelValues(kind).Inc()
	}
}

// IncFallbackFill counts one fallback rule hit.
func (m *Metrics) IncFallbackFill(rule string) {
	if m != nil {
		m.FallbackFills.WithLabelValues(rule).Inc()
	}
}

// IncCatalogLookup counts one catalog lookup.
func (m *Metrics) IncCatalogLookup(catalog, outcome string) {
	if m != nil {
		m.CatalogLookups.WithLabelValues(catalog, outcome).Inc()
	}
}

// IncGeoLookup counts one location code lookup.
func (m *Metrics) IncGeoLookup(outcome string) {
	if m != nil {
		m.GeoLookups.WithLabelValues(outcome).Inc()
	}
}

// IncGeoTableLoad counts one reference table load attempt.
func (m *Metrics) IncGeoTableLoad(tier, outcome string) {
	if m != nil {
		m.GeoTableLoads.WithLabelValues(tier, outcome).Inc()
	}
}
