package session

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/types"
)

// PrivilegeLookup is the slice of the resource registry a Session
// needs: the declared privilege rules for one resource. Declared as
// an interface here so pkg/session never imports pkg/resource
// directly — pkg/rpc passes the concrete resource.Registry in when it
// builds a Session.
type PrivilegeLookup interface {
	Privileges(id types.ResourceID) (types.Privileges, error)
}

// Session is bound to one TLS connection after successful
// authentication.
type Session struct {
	User       types.User
	perms      types.PermissionSet
	privileges PrivilegeLookup
	spanID     string
	span       zerolog.Logger
}

// New builds a Session for user, with perms already evaluated from
// their roles by pkg/roles (see roles.Map.Evaluate).
func New(user types.User, perms types.PermissionSet, privileges PrivilegeLookup) *Session {
	spanID := uuid.NewString()
	return &Session{
		User:       user,
		perms:      perms,
		privileges: privileges,
		spanID:     spanID,
		span:       log.Logger.With().Str("user", string(user.ID)).Str("span", spanID).Logger(),
	}
}

// SpanID returns the correlation identifier this session's logger
// attaches to every line, for pairing with client-visible errors.
func (s *Session) SpanID() string { return s.spanID }

// Log returns the session's correlated logger.
func (s *Session) Log() *zerolog.Logger { return &s.span }

func (s *Session) hasPrivilege(rule types.PermissionRule) bool {
	if rule == "" {
		return true
	}
	return s.perms.Has(string(rule))
}

// HasDisclose reports whether the session may see that id exists at
// all and read its static description.
func (s *Session) HasDisclose(id types.ResourceID) bool {
	p, err := s.privileges.Privileges(id)
	if err != nil {
		return false
	}
	return s.hasPrivilege(p.Disclose)
}

// HasRead reports whether the session may observe id's live status.
func (s *Session) HasRead(id types.ResourceID) bool {
	p, err := s.privileges.Privileges(id)
	if err != nil {
		return false
	}
	return s.hasPrivilege(p.Read)
}

// HasWrite reports whether the session may propose a new status for
// id (claim, release, check-in).
func (s *Session) HasWrite(id types.ResourceID) bool {
	p, err := s.privileges.Privileges(id)
	if err != nil {
		return false
	}
	return s.hasPrivilege(p.Write)
}

// HasManage reports whether the session may force id's status through
// the manage-tier transitions (block, disable, force-free), bypassing
// the write-tier ownership check.
func (s *Session) HasManage(id types.ResourceID) bool {
	p, err := s.privileges.Privileges(id)
	if err != nil {
		return false
	}
	return s.hasPrivilege(p.Manage)
}
