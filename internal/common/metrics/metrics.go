// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SkillRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_requests_total",
			Help: "Total number of skill requests dispatched",
		},
		[]string{"category", "locale_class", "outcome"},
	)

	SkillRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skill_request_duration_seconds",
			Help:    "Duration of skill request dispatch in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"category"},
	)

	SkillConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_conversions_total",
			Help: "Total number of unit conversions attempted",
		},
		[]string{"locale_class", "outcome"},
	)

	SkillFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_faults_total",
			Help: "Total number of requests routed to the error handler",
		},
		[]string{"error_code"},
	)

	TransportRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_transport_rejections_total",
			Help: "Total number of envelopes rejected before dispatch",
		},
		[]string{"transport", "error_code"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
