package resource

import "github.com/hsguild/warden/pkg/types"

// ledger tracks the claim/interest/notify entries currently held
// against one resource, keyed by the session that holds each entry.
// It is only ever touched from the resource's single update-queue
// goroutine, so it needs no locking of its own.
type ledger struct {
	bySession map[string]types.ClaimEntry
}

func newLedger() *ledger {
	return &ledger{bySession: make(map[string]types.ClaimEntry)}
}

// grant records that sessionID now holds entry.
func (l *ledger) grant(sessionID string, entry types.ClaimEntry) {
	l.bySession[sessionID] = entry
}

// release removes sessionID's entry, if any, and reports it.
func (l *ledger) release(sessionID string) (types.ClaimEntry, bool) {
	entry, ok := l.bySession[sessionID]
	if ok {
		delete(l.bySession, sessionID)
	}
	return entry, ok
}

// claimHolders returns every session ID currently holding a claim-level
// entry for subject.
func (l *ledger) claimHolders(subject types.UserID) []string {
	var out []string
	for sessionID, entry := range l.bySession {
		if entry.Level == types.LevelClaim && entry.Subject == subject {
			out = append(out, sessionID)
		}
	}
	return out
}
