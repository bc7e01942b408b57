package metrics

import "github.com/prometheus/client_golang/prometheus"

// namespace prefixes every exported metric.
const namespace = "resumatch"

// Scoring Prometheus metrics.
var (
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time to score one resume against one job description",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	FinalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Distribution of weighted final scores",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	LabelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "labels_total",
			Help:      "Scored resumes by match label",
		},
		[]string{"label"},
	)

	ScoringErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_errors_total",
			Help:      "Scoring failures by stage",
		},
		[]string{"stage"},
	)
)

var scoringMetricsRegistered bool

// RegisterScoringMetrics registers the scoring metrics. Must be called once from main.
func RegisterScoringMetrics() {
	if scoringMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(FinalScore)
	prometheus.MustRegister(LabelsTotal)
	prometheus.MustRegister(ScoringErrorsTotal)
	scoringMetricsRegistered = true
}
