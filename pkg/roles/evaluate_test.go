package roles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hsguild/warden/pkg/types"
)

func id(name string) types.RoleIdentifier { return types.RoleIdentifier{Name: name} }

func TestEvaluateCollectsParentPermissions(t *testing.T) {
	m := Map{
		id("member"): {
			Parents:     []types.RoleIdentifier{id("guest")},
			Permissions: []types.PermissionRule{"resource.drill.use"},
		},
		id("guest"): {
			Permissions: []types.PermissionRule{"resource.*.disclose"},
		},
	}

	perms := m.Evaluate([]types.RoleIdentifier{id("member")})
	assert.True(t, perms.Has("resource.drill.use"))
	assert.True(t, perms.Has("resource.laser.disclose"))
	assert.False(t, perms.Has("resource.laser.manage"))
}

func TestEvaluateTerminatesOnCycle(t *testing.T) {
	m := Map{
		id("a"): {
			Parents:     []types.RoleIdentifier{id("b")},
			Permissions: []types.PermissionRule{"a.perm"},
		},
		id("b"): {
			Parents:     []types.RoleIdentifier{id("a")},
			Permissions: []types.PermissionRule{"b.perm"},
		},
	}

	done := make(chan types.PermissionSet, 1)
	go func() { done <- m.Evaluate([]types.RoleIdentifier{id("a")}) }()

	select {
	case perms := <-done:
		assert.True(t, perms.Has("a.perm"))
		assert.True(t, perms.Has("b.perm"))
	case <-time.After(2 * time.Second):
		t.Fatal("Evaluate did not terminate on a cyclic role graph")
	}
}

func TestEvaluateUnknownRoleIsIgnored(t *testing.T) {
	m := Map{}
	perms := m.Evaluate([]types.RoleIdentifier{id("ghost")})
	assert.Empty(t, perms)
}

func TestHas(t *testing.T) {
	m := Map{
		id("admin"): {Permissions: []types.PermissionRule{"resource.*"}},
	}
	assert.True(t, m.Has([]types.RoleIdentifier{id("admin")}, "resource.drill.manage"))
	assert.False(t, m.Has([]types.RoleIdentifier{id("admin")}, "resource"))
}
