package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResourcesTotal tracks the current count of resources by status.
	ResourcesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warden_resources_total",
			Help: "Total number of resources by status",
		},
		[]string{"status"},
	)

	// UsersTotal tracks the current user directory size.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "warden_users_total",
			Help: "Total number of users in the directory",
		},
	)

	// ProposalsTotal counts propose() calls by resource and outcome.
	ProposalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_proposals_total",
			Help: "Total number of proposed state transitions by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	// CommitDuration times the full commit pipeline (DB write, audit
	// append, signal publish) for one resource transition.
	CommitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warden_commit_duration_seconds",
			Help:    "Time taken to commit a resource state transition",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AuditAppendsTotal counts audit log lines written.
	AuditAppendsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "warden_audit_appends_total",
			Help: "Total number of audit log lines appended",
		},
	)

	// AuditWriteFailuresTotal counts audit log I/O failures (spec.md §9
	// open question: these leave the DB commit in place but the
	// transition is reported to the RPC caller as failed).
	AuditWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "warden_audit_write_failures_total",
			Help: "Total number of audit log write failures",
		},
	)

	// ActorApplyDuration times one actor Apply() call, by configured
	// actor name.
	ActorApplyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_actor_apply_duration_seconds",
			Help:    "Time taken for an actor to apply a state change",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"actor"},
	)

	// ActorApplyFailuresTotal counts actor Apply() errors, by configured
	// actor name.
	ActorApplyFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_actor_apply_failures_total",
			Help: "Total number of actor apply failures",
		},
		[]string{"actor"},
	)

	// ActorCoalescedTotal counts state updates skipped because an
	// apply was already in flight when a newer state arrived.
	ActorCoalescedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_actor_coalesced_total",
			Help: "Total number of intermediate states skipped by actor coalescing",
		},
		[]string{"actor"},
	)

	// InitiatorEventsTotal counts proposed updates emitted by initiators.
	InitiatorEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_initiator_events_total",
			Help: "Total number of state updates proposed by an initiator",
		},
		[]string{"initiator", "outcome"},
	)

	// AuthSessionsTotal counts SASL session outcomes.
	AuthSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_auth_sessions_total",
			Help: "Total number of SASL authentication sessions by outcome",
		},
		[]string{"mechanism", "outcome"},
	)

	// RPCRequestsTotal counts RPC calls by method and outcome.
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_rpc_requests_total",
			Help: "Total number of RPC calls by method and status",
		},
		[]string{"method", "status"},
	)

	// RPCRequestDuration times RPC calls by method.
	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_rpc_request_duration_seconds",
			Help:    "RPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(ResourcesTotal)
	prometheus.MustRegister(UsersTotal)
	prometheus.MustRegister(ProposalsTotal)
	prometheus.MustRegister(CommitDuration)
	prometheus.MustRegister(AuditAppendsTotal)
	prometheus.MustRegister(AuditWriteFailuresTotal)
	prometheus.MustRegister(ActorApplyDuration)
	prometheus.MustRegister(ActorApplyFailuresTotal)
	prometheus.MustRegister(ActorCoalescedTotal)
	prometheus.MustRegister(InitiatorEventsTotal)
	prometheus.MustRegister(AuthSessionsTotal)
	prometheus.MustRegister(RPCRequestsTotal)
	prometheus.MustRegister(RPCRequestDuration)
}

// Handler returns the Prometheus HTTP scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a small helper for timing operations and observing the
// result into a histogram.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
