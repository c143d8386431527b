package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

type fakeLookup map[types.ResourceID]types.Privileges

func (f fakeLookup) Privileges(id types.ResourceID) (types.Privileges, error) {
	p, ok := f[id]
	if !ok {
		return types.Privileges{}, assertNotFound
	}
	return p, nil
}

var assertNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

func TestSessionPredicates(t *testing.T) {
	lookup := fakeLookup{
		"drill": types.Privileges{
			Disclose: "resource.disclose",
			Read:     "resource.read",
			Write:    "resource.use",
			Manage:   "resource.manage",
		},
	}

	member := New(types.User{ID: "alice"}, types.PermissionSet{"resource.disclose", "resource.read", "resource.use"}, lookup)
	assert.True(t, member.HasDisclose("drill"))
	assert.True(t, member.HasRead("drill"))
	assert.True(t, member.HasWrite("drill"))
	assert.False(t, member.HasManage("drill"))

	stranger := New(types.User{ID: "bob"}, nil, lookup)
	assert.False(t, stranger.HasDisclose("drill"))
}

func TestSessionUnknownResourceDeniesEverything(t *testing.T) {
	lookup := fakeLookup{}
	s := New(types.User{ID: "alice"}, types.PermissionSet{"resource.*"}, lookup)
	assert.False(t, s.HasRead("ghost"))
}

func TestSessionEmptyPrivilegeRuleAlwaysGranted(t *testing.T) {
	lookup := fakeLookup{"open-bench": types.Privileges{}}
	s := New(types.User{ID: "alice"}, nil, lookup)
	require.True(t, s.HasDisclose("open-bench"))
	require.True(t, s.HasRead("open-bench"))
}

func TestSessionSpanIDIsStable(t *testing.T) {
	s := New(types.User{ID: "alice"}, nil, fakeLookup{})
	assert.NotEmpty(t, s.SpanID())
	assert.Equal(t, s.SpanID(), s.SpanID())
}
