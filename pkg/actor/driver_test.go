package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

// blockingActor records every status it was asked to apply and blocks
// on a gate until released, so tests can control exactly when one
// Apply call finishes relative to new publishes.
type blockingActor struct {
	mu      sync.Mutex
	applied []types.Status
	gate    chan struct{}
	entered chan types.Status
}

func newBlockingActor() *blockingActor {
	return &blockingActor{gate: make(chan struct{}, 64), entered: make(chan types.Status, 64)}
}

func (a *blockingActor) Apply(ctx context.Context, status types.Status) error {
	a.entered <- status
	<-a.gate
	a.mu.Lock()
	a.applied = append(a.applied, status)
	a.mu.Unlock()
	return nil
}

func (a *blockingActor) release() { a.gate <- struct{}{} }

func (a *blockingActor) snapshot() []types.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.Status, len(a.applied))
	copy(out, a.applied)
	return out
}

func TestDriverAppliesEachPublishedState(t *testing.T) {
	states := make(chan types.Status, 1)
	states <- types.StatusFree()
	a := newBlockingActor()
	d := NewDriver("lathe", "dummy", a, states, func() {})
	go d.Run(context.Background())
	defer d.Stop()

	a.release()
	require.Eventually(t, func() bool { return len(a.snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, types.StatusFree(), a.snapshot()[0])
}

func TestDriverCoalescesStatesPublishedWhileApplyInFlight(t *testing.T) {
	ch := make(chan types.Status, 1)
	ch <- types.StatusFree()
	a := newBlockingActor()
	d := NewDriver("lathe", "dummy", a, ch, func() {})
	go d.Run(context.Background())
	defer d.Stop()

	// Wait until Apply(Free) has actually started before publishing
	// more states, so none of them race the initial channel drain.
	require.Equal(t, types.StatusFree(), <-a.entered)

	// Apply(Free) is now blocked inside the actor. Publish two more
	// states while it's in flight; only the single-slot channel's
	// overwrite semantics mean just the latest survives.
	overwrite(ch, types.StatusInUse("alice"))
	overwrite(ch, types.StatusInUse("bob"))

	a.release() // finishes applying Free
	a.release() // finishes applying whatever coalesced through
	require.Eventually(t, func() bool { return len(a.snapshot()) == 2 }, time.Second, time.Millisecond)

	got := a.snapshot()
	assert.Equal(t, types.StatusFree(), got[0])
	assert.Equal(t, types.StatusInUse("bob"), got[1])
}

// overwrite mimics stateSignal.Publish's single-slot replace behavior
// on a raw test channel.
func overwrite(ch chan types.Status, st types.Status) {
	select {
	case ch <- st:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func TestDriverStopEndsRun(t *testing.T) {
	ch := make(chan types.Status, 1)
	a := newBlockingActor()
	unsubscribed := make(chan struct{})
	d := NewDriver("lathe", "dummy", a, ch, func() { close(unsubscribed) })

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()
	d.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
	select {
	case <-unsubscribed:
	case <-time.After(time.Second):
		t.Fatal("unsubscribe was not called")
	}
}
