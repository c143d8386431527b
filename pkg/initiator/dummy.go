package initiator

import (
	"context"
	"time"

	"github.com/hsguild/warden/pkg/types"
)

// dummyInterval is the oscillation period for the Dummy source.
const dummyInterval = 2 * time.Second

// DummySource oscillates between Free and InUse(user) on a fixed
// timer, for configuration testing and demos.
type DummySource struct {
	user   types.UserID
	ticker *time.Ticker
	inUse  bool
}

// NewDummySource builds a DummySource that will claim the resource
// for user every other tick.
func NewDummySource(user types.UserID) *DummySource {
	return &DummySource{user: user, ticker: time.NewTicker(dummyInterval)}
}

func (s *DummySource) Next(ctx context.Context) (types.Status, bool) {
	select {
	case <-s.ticker.C:
		s.inUse = !s.inUse
		if s.inUse {
			return types.StatusInUse(s.user), true
		}
		return types.StatusFree(), true
	case <-ctx.Done():
		return types.Status{}, false
	}
}

func (s *DummySource) Close() error {
	s.ticker.Stop()
	return nil
}
