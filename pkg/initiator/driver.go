package initiator

import (
	"context"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/metrics"
	"github.com/hsguild/warden/pkg/types"
)

// state names the driver's place in the Empty/Sleeping/Updating cycle.
// Go's blocking Next() call collapses Empty and Sleeping into the same
// wait, but the state is tracked explicitly for logging, matching the
// lifecycle this driver is specified against.
type state int

const (
	stateEmpty state = iota
	stateSleeping
	stateUpdating
)

// Driver runs one (initiator, resource) edge: it pulls proposed
// states from a Source and submits each one to a Target under a
// fixed session identity.
type Driver struct {
	resourceID types.ResourceID
	name       string
	sessionID  string
	user       types.UserID
	source     Source
	target     Target

	state  state
	stopCh chan struct{}
}

// NewDriver builds a Driver. sessionID identifies the claim ledger
// entry this driver's proposals are tracked under; it must be unique
// per edge.
func NewDriver(resourceID types.ResourceID, name, sessionID string, user types.UserID, source Source, target Target) *Driver {
	return &Driver{
		resourceID: resourceID,
		name:       name,
		sessionID:  sessionID,
		user:       user,
		source:     source,
		target:     target,
		state:      stateEmpty,
		stopCh:     make(chan struct{}),
	}
}

// Stop ends the driver's run loop and releases its session.
func (d *Driver) Stop() { close(d.stopCh) }

// Run drives the Empty -> Sleeping -> Updating -> Sleeping cycle until
// Stop is called, ctx is canceled, or the source is exhausted.
func (d *Driver) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-d.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer d.release()

	d.state = stateSleeping
	for {
		status, ok := d.source.Next(ctx)
		if !ok {
			return
		}

		d.state = stateUpdating
		d.propose(status)
		d.state = stateSleeping

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (d *Driver) propose(status types.Status) {
	err := d.target.Propose(d.user, status, false)
	outcome := "proposed"
	if err != nil {
		outcome = "rejected"
		log.Logger.Warn().Err(err).
			Str("initiator", d.name).
			Str("resource", string(d.resourceID)).
			Str("state", status.String()).
			Msg("initiator proposal rejected")
	} else if status.Kind == types.InUse && status.User == d.user {
		if err := d.target.AddClaim(d.sessionID, types.ClaimEntry{
			Subject: d.user,
			Target:  d.resourceID,
			Level:   types.LevelClaim,
		}); err != nil {
			log.Logger.Warn().Err(err).
				Str("initiator", d.name).
				Msg("initiator failed to record claim")
		}
	}
	metrics.InitiatorEventsTotal.WithLabelValues(d.name, outcome).Inc()
}

func (d *Driver) release() {
	if err := d.target.ReleaseSession(d.sessionID); err != nil {
		log.Logger.Warn().Err(err).Str("initiator", d.name).Msg("initiator failed to release session")
	}
	if err := d.source.Close(); err != nil {
		log.Logger.Warn().Err(err).Str("initiator", d.name).Msg("initiator source close failed")
	}
}
