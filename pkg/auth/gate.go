package auth

import (
	"time"

	"github.com/hsguild/warden/pkg/werr"
)

// DefaultInactivityTimeout is used when a Gate is built without an
// explicit timeout. spec.md requires some finite timeout to exist but
// leaves the exact value to the implementation.
const DefaultInactivityTimeout = 120 * time.Second

// Gate is the closed registry of SASL mechanisms a warden instance
// offers, filtered per-connection by policy (PLAIN only over TLS).
type Gate struct {
	mechanisms map[MechName]Mechanism
	resolver   *Resolver
	timeout    time.Duration
}

// NewGate builds a Gate with the standard PLAIN and ANONYMOUS
// mechanisms registered, resolving identities through resolver and
// aborting a session that sees no Step call within timeout (zero
// means DefaultInactivityTimeout).
func NewGate(resolver *Resolver, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	g := &Gate{
		mechanisms: make(map[MechName]Mechanism),
		resolver:   resolver,
		timeout:    timeout,
	}
	g.Register(plainMechanism())
	g.Register(anonymousMechanism())
	return g
}

// Register adds or replaces a mechanism in the registry. Intended for
// wiring in additional mechanisms (e.g. a hardware-token mechanism)
// at startup, never at runtime from an untrusted source.
func (g *Gate) Register(m Mechanism) {
	g.mechanisms[m.Name] = m
}

// ListAvailableMechanisms returns the names of every registered
// mechanism whose policy currently allows it.
func (g *Gate) ListAvailableMechanisms(overTLS bool) []MechName {
	var out []MechName
	for name, m := range g.mechanisms {
		if m.Available(overTLS) {
			out = append(out, name)
		}
	}
	return out
}

// Start begins a new authentication session for the named mechanism.
// It fails with werr.MechanismUnavailable if the mechanism is not
// registered or is withheld by policy for this connection.
func (g *Gate) Start(name MechName, overTLS bool) (*Session, error) {
	m, ok := g.mechanisms[name]
	if !ok || !m.Available(overTLS) {
		return nil, werr.New(werr.MechanismUnavailable, "mechanism not available: "+string(name))
	}
	s := &Session{gate: g, mech: name, state: Running, lastActivity: time.Now()}
	s.server = m.newServer(s)
	return s, nil
}
