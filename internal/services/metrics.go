package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "resume_insight"

// Metrics groups the pipeline's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	extractionAttempts *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	resumeScores       prometheus.Histogram
	matchScores        prometheus.Histogram
	degradedAnalyses   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	scoreBuckets := prometheus.LinearBuckets(0, 10, 11)

	return &Metrics{
		extractionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "extraction_attempts_total",
			Help:      "Text extraction attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Content cache lookups by namespace and result.",
		}, []string{"namespace", "result"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
		}, []string{"stage"}),
		resumeScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resume_score",
			Help:      "Distribution of resume scores.",
			Buckets:   scoreBuckets,
		}),
		matchScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "match_score",
			Help:      "Distribution of job description match scores.",
			Buckets:   scoreBuckets,
		}),
		degradedAnalyses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "degraded_analyses_total",
			Help:      "Analyses replaced by the degraded default after a scoring failure.",
		}),
	}
}

func (m *Metrics) ObserveExtraction(strategy string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.extractionAttempts.WithLabelValues(strategy, outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(namespace string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) ObserveStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveResumeScore(score int) {
	if m == nil {
		return
	}
	m.resumeScores.Observe(float64(score))
}

func (m *Metrics) ObserveMatchScore(score int) {
	if m == nil {
		return
	}
	m.matchScores.Observe(float64(score))
}

func (m *Metrics) IncDegraded() {
	if m == nil {
		return
	}
	m.degradedAnalyses.Inc()
}
