package resource

import (
	"time"

	"github.com/hsguild/warden/pkg/audit"
	"github.com/hsguild/warden/pkg/metrics"
	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

const statusRecordVersion = 1

// Resource is one arbitrated resource: its static description, its
// live status behind a state signal, its claim ledger, and the
// single-consumer queue that totally orders every mutation against
// it. All fields below queue/stopCh/signal/ledger/typed/auditLog are
// only ever touched from the run goroutine.
type Resource struct {
	id       types.ResourceID
	desc     types.ResourceDescription
	queue    chan func()
	stopCh   chan struct{}
	signal   *stateSignal
	ledger   *ledger
	typed    *tdb.TypedDB[types.Status]
	auditLog *audit.Log
	index    *tdb.IndexManager
}

func newResource(desc types.ResourceDescription, initial types.Status, typed *tdb.TypedDB[types.Status], auditLog *audit.Log, index *tdb.IndexManager) *Resource {
	r := &Resource{
		id:       desc.ID,
		desc:     desc,
		queue:    make(chan func(), 64),
		stopCh:   make(chan struct{}),
		signal:   newStateSignal(initial),
		ledger:   newLedger(),
		typed:    typed,
		auditLog: auditLog,
		index:    index,
	}
	go r.run()
	return r
}

func (r *Resource) run() {
	for {
		select {
		case fn := <-r.queue:
			fn()
		case <-r.stopCh:
			return
		}
	}
}

// Stop shuts down the resource's update queue. Pending calls already
// blocked in Propose/Force/Release/AddClaim/ReleaseSession never
// return once this is called.
func (r *Resource) Stop() { close(r.stopCh) }

// Description returns the resource's static description, including
// its declared privilege rules.
func (r *Resource) Description() types.ResourceDescription { return r.desc }

// State returns the resource's current status. It does not go
// through the update queue: it is a plain mutex-guarded read of the
// state signal, safe to call from any goroutine at any time.
func (r *Resource) State() types.Status { return r.signal.Current() }

// Subscribe returns a channel that always holds the most recently
// published status not yet observed by this caller, for actor and
// initiator drivers.
func (r *Resource) Subscribe() (<-chan types.Status, func()) { return r.signal.Subscribe() }

func (r *Resource) enqueue(fn func() error) error {
	done := make(chan error, 1)
	r.queue <- func() { done <- fn() }
	return <-done
}

// Propose submits a transition to next on behalf of caller. manage
// reports whether caller's session carries manage privilege on this
// resource; write privilege is assumed to have already been checked
// by the caller (pkg/session's HasWrite), since propose is only
// reachable at all once that gate has passed.
func (r *Resource) Propose(caller types.UserID, next types.Status, manage bool) error {
	return r.enqueue(func() error {
		current := r.signal.Current()
		if current.Equal(next) {
			return nil
		}
		if err := validateTransition(current, next, caller, manage); err != nil {
			return err
		}
		return r.commit(next)
	})
}

// Release is equivalent to Propose(caller, Free, false) — valid only
// when caller currently holds the resource.
func (r *Resource) Release(caller types.UserID) error {
	return r.Propose(caller, types.StatusFree(), false)
}

// Force applies next unconditionally under administrative override,
// still subject to the manage-tier transition table (spec.md §4.6):
// it is not an escape hatch from every rule, only from the write-tier
// ownership check.
func (r *Resource) Force(admin types.UserID, next types.Status) error {
	return r.Propose(admin, next, true)
}

// AddClaim records that sessionID now holds entry against this
// resource.
func (r *Resource) AddClaim(sessionID string, entry types.ClaimEntry) error {
	return r.enqueue(func() error {
		r.ledger.grant(sessionID, entry)
		return nil
	})
}

// ReleaseSession drops sessionID's ledger entry, if any. If the
// session held the current InUse/Reserved claim, the resource is
// moved to Free through the normal commit pipeline.
func (r *Resource) ReleaseSession(sessionID string) error {
	return r.enqueue(func() error {
		entry, ok := r.ledger.release(sessionID)
		if !ok || entry.Level != types.LevelClaim {
			return nil
		}
		current := r.signal.Current()
		if current.Kind.HasUser() && current.User == entry.Subject &&
			(current.Kind == types.InUse || current.Kind == types.Reserved) {
			return r.commit(types.StatusFree().WithPrevious(entry.Subject))
		}
		return nil
	})
}

// commit runs the three-step pipeline spec.md §4.6 requires: write
// the new state to TDB, append one audit line, publish the new state.
// A failure writing the audit line is reported to the caller but the
// TDB write is not rolled back (spec.md §9 open question) — the state
// the store now holds is the state that was actually committed, even
// though the audit trail disagrees about whether it happened.
func (r *Resource) commit(next types.Status) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.CommitDuration)

	err := r.typed.Update(func(txn *tdb.Txn) error {
		return r.typed.Put(txn, stateKey(r.id), next)
	})
	if err != nil {
		metrics.ProposalsTotal.WithLabelValues(string(r.id), "db_error").Inc()
		return werr.Wrap(werr.IoFailure, err, "commit resource state")
	}

	entry := audit.Entry{Seq: r.index.NextID(), Timestamp: time.Now().Unix(), Machine: string(r.id), State: next.String()}
	if err := r.auditLog.Append(entry); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		metrics.ProposalsTotal.WithLabelValues(string(r.id), "audit_error").Inc()
		return werr.Wrap(werr.IoFailure, err, "append audit entry")
	}
	metrics.AuditAppendsTotal.Inc()

	r.signal.Publish(next)
	metrics.ProposalsTotal.WithLabelValues(string(r.id), "committed").Inc()
	return nil
}

func stateKey(id types.ResourceID) []byte {
	return []byte("state/" + string(id))
}
