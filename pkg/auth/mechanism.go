package auth

import (
	"github.com/emersion/go-sasl"
)

// MechName identifies a registered SASL mechanism.
type MechName string

const (
	MechPlain     MechName = "PLAIN"
	MechAnonymous MechName = "ANONYMOUS"
)

// Mechanism is one entry in the gate's closed registry: a name, a
// policy predicate deciding whether it is currently on offer, and a
// constructor for a fresh wire-level sasl.Server. The registry stays
// closed at runtime (no plugin loading); a new mechanism is added by
// registering one more Mechanism value, the same shape actors and
// initiators use for their own drivers.
type Mechanism struct {
	Name      MechName
	Available func(overTLS bool) bool
	newServer func(s *Session) sasl.Server
}

func alwaysAvailable(bool) bool { return true }

func tlsOnly(overTLS bool) bool { return overTLS }

func plainMechanism() Mechanism {
	return Mechanism{
		Name:      MechPlain,
		Available: tlsOnly,
		newServer: func(s *Session) sasl.Server {
			return sasl.NewPlainServer(func(identity, username, password string) error {
				return s.gate.resolver.ResolvePassword(username, password, &s.identity)
			})
		},
	}
}

func anonymousMechanism() Mechanism {
	return Mechanism{
		Name:      MechAnonymous,
		Available: alwaysAvailable,
		newServer: func(s *Session) sasl.Server {
			return sasl.NewAnonymousServer(func(trace string) error {
				return s.gate.resolver.ResolveAnonymous(trace, &s.identity)
			})
		},
	}
}
