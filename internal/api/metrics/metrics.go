// Package metrics defines and registers all custom Prometheus metrics for the
// dashboard gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package load;
// Recorder plugs them into the query cache and the push pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scm_gateway"

// ── Query cache metrics ───────────────────────────────────────────────────────

// CacheReadsTotal counts cache reads.
// Labels:
//   - resource: first segment of the query key (e.g. "dashboard", "users")
//   - outcome: "hit", "miss" or "join" (attached to an in-flight fetch)
var CacheReadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_reads_total",
		Help:      "Total number of query cache reads, by resource and outcome.",
	},
	[]string{"resource", "outcome"},
)

// LoaderCallsTotal counts fetches issued against the remote API.
var LoaderCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loader_calls_total",
		Help:      "Total number of remote fetches started by the query cache.",
	},
	[]string{"resource"},
)

// DiscardedResultsTotal counts fetch results dropped because a newer fetch
// superseded them or every consumer went away.
var DiscardedResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discarded_results_total",
		Help:      "Total number of fetch results discarded as stale.",
	},
	[]string{"resource"},
)

// InvalidationsTotal counts cache entries marked stale.
var InvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalidations_total",
		Help:      "Total number of cache entries invalidated, by resource.",
	},
	[]string{"resource"},
)

// MutationsTotal counts remote writes.
// Label:
//   - outcome: "success" or "failure"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of remote writes, by outcome.",
	},
	[]string{"outcome"},
)

// ── Push metrics ──────────────────────────────────────────────────────────────

// PushEventsTotal counts push events handled by the event service.
// Labels:
//   - type: "notification" or "invalidate"
//   - outcome: "applied" or "rejected"
var PushEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_events_total",
		Help:      "Total number of push events processed, by type and outcome.",
	},
	[]string{"type", "outcome"},
)

var registerDepth sync.Once

// RegisterQueueDepth exposes the dispatcher backlog as a gauge. Only the
// first call registers.
func RegisterQueueDepth(depth func() int) {
	registerDepth.Do(func() {
		promauto.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "events_queue_depth",
				Help:      "Current number of push events pending in the dispatcher.",
			},
			func() float64 { return float64(depth()) },
		)
	})
}

// Recorder feeds the query cache and the push pipeline into the vectors
// above.
type Recorder struct{}

func (Recorder) CacheRead(resource, outcome string) {
	CacheReadsTotal.WithLabelValues(resource, outcome).Inc()
}

func (Recorder) LoaderCalled(resource string) {
	LoaderCallsTotal.WithLabelValues(resource).Inc()
}

func (Recorder) ResultDiscarded(resource string) {
	DiscardedResultsTotal.WithLabelValues(resource).Inc()
}

func (Recorder) Invalidated(resource string) {
	InvalidationsTotal.WithLabelValues(resource).Inc()
}

func (Recorder) Mutation(outcome string) {
	MutationsTotal.WithLabelValues(outcome).Inc()
}

func (Recorder) Pushed(eventType, outcome string) {
	PushEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
