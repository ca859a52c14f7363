// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_applications_accepted_total",
			Help: "Total number of applications accepted by the intake pipeline",
		},
		[]string{"tenant"},
	)

	ApplicationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_applications_rejected_total",
			Help: "Total number of applications rejected by the intake pipeline",
		},
		[]string{"tenant", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_stage_duration_seconds",
			Help: "Duration of each intake pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	PostDurabilityFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_post_durability_failures_total",
			Help: "Failures in stages after the submission was durably written",
		},
		[]string{"stage"},
	)
)
