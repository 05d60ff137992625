package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginAttemptsTotal counts login attempts by outcome (success / failure).
	LoginAttemptsTotal *prometheus.CounterVec

	// LoginThrottledTotal counts logins rejected by the rate limiter.
	LoginThrottledTotal prometheus.Counter

	// ReportTransitionsTotal counts lifecycle transitions by action
	// (submit / approve / request_changes).
	ReportTransitionsTotal *prometheus.CounterVec

	// RateLimitWaitDuration observes how long callers waited on the limiter.
	RateLimitWaitDuration prometheus.Histogram

	initOnce sync.Once
)

// InitMetrics registers all collectors with the default registry. Safe to
// call more than once; only the first call registers.
func InitMetrics() {
	initOnce.Do(func() {
		LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "berichtsheft_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"})

		LoginThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "berichtsheft_login_throttled_total",
			Help: "Logins rejected by the rate limiter.",
		})

		ReportTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "berichtsheft_report_transitions_total",
			Help: "Report lifecycle transitions by action.",
		}, []string{"action"})

		RateLimitWaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "berichtsheft_ratelimit_wait_seconds",
			Help:    "Time spent waiting on the login rate limiter.",
			Buckets: prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			LoginAttemptsTotal,
			LoginThrottledTotal,
			ReportTransitionsTotal,
			RateLimitWaitDuration,
		)
	})
}
