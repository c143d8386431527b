package roles

import "github.com/hsguild/warden/pkg/types"

// Map is the static role graph: every role known to the system,
// keyed by its identifier.
type Map map[types.RoleIdentifier]types.Role

// Evaluate returns the full set of permission rules reachable from
// start, following each role's parents breadth-first. A visited set
// keyed by role identifier guarantees termination even when the
// graph contains a cycle, and guarantees each role's permissions are
// collected at most once regardless of how many paths reach it.
func (m Map) Evaluate(start []types.RoleIdentifier) types.PermissionSet {
	visited := make(map[types.RoleIdentifier]bool)
	queue := make([]types.RoleIdentifier, 0, len(start))
	queue = append(queue, start...)

	var perms types.PermissionSet
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		role, ok := m[id]
		if !ok {
			continue
		}
		perms = append(perms, role.Permissions...)
		queue = append(queue, role.Parents...)
	}
	return perms
}

// Has reports whether the role graph reachable from start grants a
// permission matching query.
func (m Map) Has(start []types.RoleIdentifier, query string) bool {
	return m.Evaluate(start).Has(query)
}
