// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oncocare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	MoodSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oncocare_mood_selections_total",
			Help: "Mood-of-the-day selections by mood",
		},
		[]string{"mood"},
	)

	MedicationMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oncocare_medication_mutations_total",
			Help: "Medication list mutations by operation",
		},
		[]string{"op"}, // add, remove
	)

	// Storage faults are never surfaced to the patient; this is where they show up.
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oncocare_storage_errors_total",
			Help: "Swallowed local storage failures",
		},
		[]string{"component", "op"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oncocare_form_submissions_total",
			Help: "Contact messages and expert questions stored",
		},
		[]string{"form"}, // contact, expert
	)

	DuplicateSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oncocare_duplicate_submissions_total",
			Help: "Mutations rejected because their idempotency key was already used",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func IncStorageError(component, op string) {
	StorageErrors.WithLabelValues(component, op).Inc()
}
