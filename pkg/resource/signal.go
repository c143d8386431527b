package resource

import (
	"sync"

	"github.com/hsguild/warden/pkg/types"
)

// stateSignal publishes a resource's committed status to any number
// of subscribers, keeping only the latest value: a slow subscriber
// never sees a backlog of intermediate states, only whatever was
// current the last time it checked. This is what lets the actor
// driver's coalescing fall out naturally (spec.md §4.7) rather than
// needing its own dedup logic on top of a queued event stream, the
// way the teacher's events.Broker delivers every event to every
// subscriber.
type stateSignal struct {
	mu      sync.Mutex
	current types.Status
	subs    map[chan types.Status]struct{}
}

func newStateSignal(initial types.Status) *stateSignal {
	return &stateSignal{current: initial, subs: make(map[chan types.Status]struct{})}
}

// Current returns the last published status.
func (s *stateSignal) Current() types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Publish sets the latest status and wakes every subscriber, replacing
// any value they have not yet consumed rather than queuing behind it.
func (s *stateSignal) Publish(st types.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = st
	for ch := range s.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Subscribe registers a new single-slot channel that always holds the
// most recent status not yet observed by this subscriber. cancel must
// be called when the subscriber is done watching.
func (s *stateSignal) Subscribe() (ch <-chan types.Status, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := make(chan types.Status, 1)
	c <- s.current
	s.subs[c] = struct{}{}
	return c, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, c)
	}
}
