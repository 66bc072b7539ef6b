// Package metrics exposes Prometheus instruments for document extraction.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docscan"

// Metrics holds extraction instruments. A nil *Metrics records nothing.
type Metrics struct {
	extractions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	candidates    prometheus.Histogram
	mismatches    prometheus.Counter
	keywordErrors prometheus.Counter
	learned       prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the instruments on reg. Handler serves reg only when it is
// also a Gatherer.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Documents extracted, by document type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting one document.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"type"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advice_candidates",
			Help:      "Scored total candidates per bank advice.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_reconciliation_mismatches_total",
			Help:      "Invoices whose total differs from pre-tax plus tax beyond the tolerance.",
		}),
		keywordErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_snapshot_errors_total",
			Help:      "Bank advices extracted without learned keywords because the store failed.",
		}),
		learned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keywords_learned_total",
			Help:      "Keywords taught to the learning store.",
		}),
	}

	reg.MustRegister(m.extractions, m.duration, m.candidates, m.mismatches, m.keywordErrors, m.learned)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// ObserveExtraction records one finished extraction.
func (m *Metrics) ObserveExtraction(docType string, warned bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if warned {
		outcome = "warning"
	}
	m.extractions.WithLabelValues(docType, outcome).Inc()
	m.duration.WithLabelValues(docType).Observe(elapsed.Seconds())
}

// ObserveCandidates records how many candidates a bank advice produced.
func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(n))
}

// IncMismatch counts an invoice that failed reconciliation.
func (m *Metrics) IncMismatch() {
	if m == nil {
		return
	}
	m.mismatches.Inc()
}

// IncKeywordSnapshotError counts a failed learned-keyword load.
func (m *Metrics) IncKeywordSnapshotError() {
	if m == nil {
		return
	}
	m.keywordErrors.Inc()
}

// IncLearned counts a taught keyword.
func (m *Metrics) IncLearned() {
	if m == nil {
		return
	}
	m.learned.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
