package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	scheduleRequestsTotal  *prometheus.CounterVec
	scheduleLatencySeconds *prometheus.HistogramVec
	reschedulesTotal       *prometheus.CounterVec
	scheduleConflictsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the schedule API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		scheduleRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_api_requests_total",
			Help: "Total number of schedule API requests served.",
		}, []string{"method", "route", "status"})

		scheduleLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedule_api_latency_seconds",
			Help:    "Latency distribution for schedule API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reschedulesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_reschedules_total",
			Help: "Total number of reschedule operations by change type and outcome.",
		}, []string{"change_type", "outcome"})

		scheduleConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_update_conflicts_total",
			Help: "Total number of updates rejected by the stale-snapshot check.",
		})

		prometheus.MustRegister(scheduleRequestsTotal, scheduleLatencySeconds, reschedulesTotal, scheduleConflictsTotal)
	})
}

// ScheduleRequests exposes the counter for schedule API requests.
func ScheduleRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return scheduleRequestsTotal
}

// ScheduleLatency exposes the latency histogram for schedule API requests.
func ScheduleLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return scheduleLatencySeconds
}

// Reschedules exposes the counter for reschedule operations.
func Reschedules() *prometheus.CounterVec {
	RegisterMetrics()
	return reschedulesTotal
}

// ScheduleConflicts exposes the counter for rejected stale writes.
func ScheduleConflicts() prometheus.Counter {
	RegisterMetrics()
	return scheduleConflictsTotal
}
