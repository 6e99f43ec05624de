// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	pollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_cycles_total",
			Help: "Polling cycles by result (success/failure).",
		},
		[]string{"result"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Telegram messages by kind and delivery result.",
		},
		[]string{"kind", "result"},
	)

	cycleErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cycle_errors_total",
			Help: "Errors raised inside polling cycles, labeled by kind.",
		},
		[]string{"kind"},
	)

	practicumRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practicum_requests_total",
			Help: "Requests to the homework statuses endpoint by HTTP code (0 on transport failure).",
		},
		[]string{"code"},
	)

	practicumRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "practicum_request_duration_seconds",
			Help:    "Latency of requests to the homework statuses endpoint.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	pollCursor = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "poll_cursor_timestamp_seconds",
			Help: "Current from_date cursor of the polling loop.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			pollCyclesTotal, notificationsTotal, cycleErrorsTotal,
			practicumRequestsTotal, practicumRequestDuration, pollCursor,
		)
	})
}

func IncCycle(success bool) {
	pollCyclesTotal.WithLabelValues(result(success)).Inc()
}

func IncNotification(kind string, delivered bool) {
	notificationsTotal.WithLabelValues(norm(kind), result(delivered)).Inc()
}

func IncCycleError(kind string) {
	cycleErrorsTotal.WithLabelValues(norm(kind)).Inc()
}

// ObservePracticumRequest records one request to the homework API.
func ObservePracticumRequest(code int, start time.Time) {
	practicumRequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	practicumRequestDuration.Observe(time.Since(start).Seconds())
}

func SetCursor(ts int64) {
	pollCursor.Set(float64(ts))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func norm(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
