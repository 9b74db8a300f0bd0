package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	JokesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jotd", Name: "jokes_served_total", Help: "Number of jokes served by pick mode (daily, random)."},
		[]string{"mode"},
	)
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jotd", Name: "submissions_total", Help: "Number of admin submissions by outcome."},
		[]string{"outcome"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jotd", Name: "cache_lookups_total", Help: "Number of document cache lookups by result (hit, miss)."},
		[]string{"result"},
	)
	WriteConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "jotd", Name: "write_conflicts_total", Help: "Number of conditional writes rejected with a stale version token."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jotd", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jotd", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

// RegisterCollectors registers every collector with reg. Safe to call more
// than once against the same registry.
func RegisterCollectors(reg prometheus.Registerer) {
	collectors := []prometheus.Collector{
		JokesServed,
		Submissions,
		CacheLookups,
		WriteConflicts,
		RateLimitAllowed,
		RateLimitRejected,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}
