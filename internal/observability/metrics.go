package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	submissionsTotal      *prometheus.CounterVec
	manualScoresTotal     prometheus.Counter
	attemptsReleasedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizdesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quizdesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizdesk_submissions_total",
			Help: "Quiz submissions processed, labelled by outcome.",
		}, []string{"outcome"})

		manualScoresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdesk_manual_scores_total",
			Help: "Manual short-answer scores posted by teachers.",
		})

		attemptsReleasedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdesk_attempts_released_total",
			Help: "Attempts whose scores were released to students.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, submissionsTotal, manualScoresTotal, attemptsReleasedTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Submissions exposes the submissions counter, labelled by outcome
// ("graded", "rejected", "failed").
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// ManualScores exposes the manual grading counter.
func ManualScores() prometheus.Counter {
	RegisterMetrics()
	return manualScoresTotal
}

// AttemptsReleased exposes the release counter.
func AttemptsReleased() prometheus.Counter {
	RegisterMetrics()
	return attemptsReleasedTotal
}
