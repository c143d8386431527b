package initiator

import (
	"context"

	"github.com/hsguild/warden/pkg/types"
)

// Source produces a stream of proposed resource states. Next blocks
// until a state is ready, ctx is canceled, or the source is
// permanently exhausted (ok == false — e.g. a child process exited).
// Close releases any resources the source holds (file handles,
// timers, the child process).
type Source interface {
	Next(ctx context.Context) (status types.Status, ok bool)
	Close() error
}

// Target is the subset of *resource.Resource a driver needs: propose
// a state change under a session identity, register the claim that
// change implies, and release that session's claim on shutdown.
// Mirrors pkg/session.PrivilegeLookup's pattern of depending on a
// narrow local interface rather than the concrete resource package.
type Target interface {
	Propose(caller types.UserID, next types.Status, manage bool) error
	AddClaim(sessionID string, entry types.ClaimEntry) error
	ReleaseSession(sessionID string) error
}
