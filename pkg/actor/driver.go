package actor

import (
	"context"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/metrics"
	"github.com/hsguild/warden/pkg/types"
)

// Driver owns one (resource, actor) edge: a subscription to the
// resource's state signal and at most one in-flight Apply call.
type Driver struct {
	resourceID  types.ResourceID
	name        string
	actor       Actor
	states      <-chan types.Status
	unsubscribe func()
	stopCh      chan struct{}
}

// NewDriver builds a Driver for actor a, watching states (as returned
// by a resource's Subscribe) and calling unsubscribe once Run exits.
func NewDriver(resourceID types.ResourceID, name string, a Actor, states <-chan types.Status, unsubscribe func()) *Driver {
	return &Driver{
		resourceID:  resourceID,
		name:        name,
		actor:       a,
		states:      states,
		unsubscribe: unsubscribe,
		stopCh:      make(chan struct{}),
	}
}

// Stop ends the driver's run loop.
func (d *Driver) Stop() { close(d.stopCh) }

// Run drives the coalescing apply loop until Stop is called, ctx is
// canceled, or the state channel closes. Intended to be launched as
// `go d.Run(ctx)` by the runtime glue that owns this edge.
func (d *Driver) Run(ctx context.Context) {
	defer d.unsubscribe()
	for {
		st, ok, stop := d.next(ctx)
		if stop {
			return
		}
		if !ok {
			return
		}
		d.apply(ctx, st)
	}
}

// next blocks for the first available state, then drains any further
// backlog without blocking, keeping only the latest — the channel's
// single-slot overwrite already guarantees at most one state
// accumulates while Apply runs, so this loop converges immediately.
func (d *Driver) next(ctx context.Context) (st types.Status, ok bool, stop bool) {
	select {
	case st, ok = <-d.states:
		if !ok {
			return st, false, false
		}
	case <-d.stopCh:
		return st, false, true
	case <-ctx.Done():
		return st, false, true
	}

	for {
		select {
		case newer, more := <-d.states:
			if !more {
				return st, true, false
			}
			metrics.ActorCoalescedTotal.WithLabelValues(d.name).Inc()
			st = newer
		default:
			return st, true, false
		}
	}
}

func (d *Driver) apply(ctx context.Context, st types.Status) {
	timer := metrics.NewTimer()
	err := d.actor.Apply(ctx, st)
	timer.ObserveDurationVec(metrics.ActorApplyDuration, d.name)
	if err != nil {
		metrics.ActorApplyFailuresTotal.WithLabelValues(d.name).Inc()
		log.Logger.Error().Err(err).
			Str("actor", d.name).
			Str("resource", string(d.resourceID)).
			Msg("actor apply failed")
	}
}
