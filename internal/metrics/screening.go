package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/rankdex/internal/usecase/screening"
)

// Screening Prometheus metrics.
var (
	ScreeningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screenings_total",
			Help:      "Total screening passes by outcome",
		},
		[]string{"status"},
	)

	ScreeningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "screening_duration_seconds",
			Help:      "Duration of one normalize, rank and annotate pass",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ScreeningCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "screening_candidates",
			Help:      "Resumes per screening",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 200},
		},
	)

	VocabularyTerms = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vocabulary_terms",
			Help:      "Vocabulary size of completed screenings",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	DegenerateVectorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_vectors_total",
			Help:      "Documents whose TF-IDF vector was all zeros",
		},
		[]string{"role"}, // "query" / "candidate"
	)

	ExtractionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "Source files that yielded no text",
		},
		[]string{"format"},
	)
)

var registerScreening sync.Once

// RegisterScreeningMetrics registers the screening collectors with the default registry.
func RegisterScreeningMetrics() {
	registerScreening.Do(func() {
		prometheus.MustRegister(
			ScreeningsTotal,
			ScreeningDuration,
			ScreeningCandidates,
			VocabularyTerms,
			DegenerateVectorsTotal,
			ExtractionFailuresTotal,
		)
	})
}

// Recorder feeds screening and extraction outcomes into Prometheus.
type Recorder struct{}

// ObserveScreening implements screening.Observer.
func (Recorder) ObserveScreening(status string, stats screening.Stats, elapsed time.Duration) {
	ScreeningsTotal.WithLabelValues(status).Inc()
	if status != screening.StatusOK {
		return
	}
	ScreeningDuration.Observe(elapsed.Seconds())
	ScreeningCandidates.Observe(float64(stats.Candidates))
	VocabularyTerms.Observe(float64(stats.VocabularySize))
	if stats.DegenerateQuery {
		DegenerateVectorsTotal.WithLabelValues("query").Inc()
	}
	if stats.DegenerateCandidates > 0 {
		DegenerateVectorsTotal.WithLabelValues("candidate").Add(float64(stats.DegenerateCandidates))
	}
}

// ObserveExtractionFailure implements extract.FailureObserver.
func (Recorder) ObserveExtractionFailure(format string) {
	ExtractionFailuresTotal.WithLabelValues(format).Inc()
}
