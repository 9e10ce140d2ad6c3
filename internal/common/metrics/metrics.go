package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokicasa_submissions_total",
			Help: "Total number of contract submissions completed",
		},
		[]string{"city", "contract_type"},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokicasa_submissions_failed_total",
			Help: "Total number of contract submissions that failed",
		},
		[]string{"step", "error_code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dokicasa_submission_duration_seconds",
			Help:    "Duration of a full two-step submission in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"city"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokicasa_provider_requests_total",
			Help: "Requests sent to the Dokicasa API by outcome",
		},
		[]string{"method", "step", "status"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ProviderStatus is the status label for a provider call: the HTTP code, or
// "error" when no response arrived.
func ProviderStatus(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
