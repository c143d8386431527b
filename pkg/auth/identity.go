package auth

import (
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/users"
)

// Identity is what a successful mechanism exchange resolves to: the
// directory user plus any attributes the mechanism itself supplied
// (a smart-card mechanism might attach a certificate serial, for
// instance; PLAIN attaches none, ANONYMOUS records its trace string).
type Identity struct {
	UserID     types.UserID
	Attributes map[string]string
}

// Resolver turns mechanism-specific credentials into an Identity by
// consulting the user directory. It is the one piece of the gate that
// talks to persistent state.
type Resolver struct {
	directory *users.Directory
	// guestUser is the directory identity every anonymous session is
	// bound to; anonymous auth is accepted unconditionally
	// (mechanism availability, not identity resolution, is where a
	// deployment disables ANONYMOUS entirely).
	guestUser types.UserID
}

// NewResolver builds a Resolver over dir. guestUser is the identity
// assigned to a successful ANONYMOUS exchange.
func NewResolver(dir *users.Directory, guestUser types.UserID) *Resolver {
	return &Resolver{directory: dir, guestUser: guestUser}
}

// ResolvePassword checks username/password against the directory and,
// on success, writes the resolved identity into out.
func (r *Resolver) ResolvePassword(username, password string, out *Identity) error {
	uid := types.UserID(username)
	ok, err := r.directory.CheckPassword(uid, password)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidCredentials
	}
	*out = Identity{UserID: uid}
	return nil
}

// ResolveAnonymous always succeeds, binding the session to the
// configured guest identity and recording the caller-supplied trace
// string for the audit trail.
func (r *Resolver) ResolveAnonymous(trace string, out *Identity) error {
	*out = Identity{
		UserID:     r.guestUser,
		Attributes: map[string]string{"trace": trace},
	}
	return nil
}
