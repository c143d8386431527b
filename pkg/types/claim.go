package types

// ClaimLevel distinguishes the three kinds of ledger entry a session
// can hold against a resource.
type ClaimLevel string

const (
	// LevelClaim is a write grant: the subject currently holds (or is
	// trying to acquire) the resource and carries a send endpoint for
	// updates.
	LevelClaim ClaimLevel = "claim"
	// LevelInterest expresses a desired target state; informational.
	LevelInterest ClaimLevel = "interest"
	// LevelNotify is a pure subscription to state changes.
	LevelNotify ClaimLevel = "notify"
)

// ClaimEntry is one row of a resource's claim/interest/notify ledger.
type ClaimEntry struct {
	Subject UserID
	Target  ResourceID
	Level   ClaimLevel
}
