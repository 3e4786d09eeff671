package scraper

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the extraction pipeline.
type Metrics struct {
	Registry          *prometheus.Registry
	ExtractionsTotal  *prometheus.CounterVec
	EscalationsTotal  prometheus.Counter
	FetchErrorsTotal  *prometheus.CounterVec
	ExtractionSeconds prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	extractions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_extractions_total",
			Help: "Product extractions by store and outcome.",
		},
		[]string{"store", "outcome"},
	)
	escalations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scrape_escalations_total",
			Help: "Extractions that escalated to a store-specific pass.",
		},
	)
	fetchErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_fetch_errors_total",
			Help: "Page fetch failures by reason.",
		},
		[]string{"reason"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_extraction_duration_seconds",
			Help:    "End-to-end extraction latency, fetches included.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(extractions, escalations, fetchErrors, duration)

	return &Metrics{
		Registry:          registry,
		ExtractionsTotal:  extractions,
		EscalationsTotal:  escalations,
		FetchErrorsTotal:  fetchErrors,
		ExtractionSeconds: duration,
	}
}

// IncExtraction counts one finished extraction attempt.
func (m *Metrics) IncExtraction(store StoreID, outcome string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(string(store), outcome).Inc()
}

// IncEscalation counts one generic-to-store-specific escalation.
func (m *Metrics) IncEscalation() {
	if m == nil {
		return
	}
	m.EscalationsTotal.Inc()
}

// IncFetchError counts a fetch failure under its reason tag.
func (m *Metrics) IncFetchError(err error) {
	if m == nil {
		return
	}
	reason := FetchOther
	var fe *FetchError
	if errors.As(err, &fe) {
		reason = fe.Reason
	}
	m.FetchErrorsTotal.WithLabelValues(string(reason)).Inc()
}

// ObserveDuration records one extraction latency.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionSeconds.Observe(d.Seconds())
}
