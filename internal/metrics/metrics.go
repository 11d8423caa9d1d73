// Package metrics exposes Prometheus counters for the recognition and
// attendance flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts successful identity registrations.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "face_attendance_registrations_total",
		Help: "Number of successful identity registrations.",
	})

	// Toggles counts recorded attendance events by status.
	Toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "face_attendance_toggles_total",
		Help: "Number of recorded attendance events by status.",
	}, []string{"status"})

	// NoFace counts check requests where no face was detected.
	NoFace = promauto.NewCounter(prometheus.CounterOpts{
		Name: "face_attendance_no_face_total",
		Help: "Number of check requests with no detectable face.",
	})

	// NoMatch counts check requests where a face was found but nobody matched.
	NoMatch = promauto.NewCounter(prometheus.CounterOpts{
		Name: "face_attendance_no_match_total",
		Help: "Number of check requests with an unrecognized face.",
	})

	// MatchDuration observes the best-match search latency.
	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "face_attendance_match_duration_seconds",
		Help:    "Latency of the best-match search over stored identities.",
		Buckets: prometheus.DefBuckets,
	})
)
