package auth

import (
	"time"

	"github.com/emersion/go-sasl"

	"github.com/hsguild/warden/pkg/werr"
)

// Session is one authentication exchange in progress. Once it reaches
// Finished or Aborted every further Step call fails without touching
// the underlying sasl.Server again.
type Session struct {
	gate  *Gate
	mech  MechName
	state State

	server       sasl.Server
	identity     Identity
	lastActivity time.Time
}

// State reports the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Identity returns the resolved identity. Only meaningful once State
// is Finished.
func (s *Session) Identity() Identity { return s.identity }

// Step feeds clientData to the mechanism and reports either a
// server challenge to send back, or completion. Calling Step on a
// terminal session returns werr.Unauthenticated without invoking the
// mechanism.
func (s *Session) Step(clientData []byte) (challenge []byte, done bool, err error) {
	if s.state != Running {
		return nil, true, werr.New(werr.Unauthenticated, "session is "+s.state.String())
	}
	if time.Since(s.lastActivity) > s.gate.timeout {
		s.state = Aborted
		return nil, true, werr.New(werr.Unauthenticated, "authentication session timed out")
	}
	s.lastActivity = time.Now()

	challenge, done, stepErr := s.server.Next(clientData)
	if stepErr != nil {
		s.state = Aborted
		return nil, true, werr.Wrap(werr.Unauthenticated, stepErr, "authentication failed")
	}
	if done {
		s.state = Finished
	}
	return challenge, done, nil
}

// Abort transitions any non-terminal session straight to Aborted.
// Calling it on an already-terminal session is a no-op.
func (s *Session) Abort() {
	if s.state == Running {
		s.state = Aborted
	}
}
