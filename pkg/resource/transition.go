package resource

import (
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// validateTransition checks next against current under the exact
// rules of spec.md §4.6, for a caller whose manage privilege is given
// by manage. A caller who only has write privilege may only move
// their own claim along the write-tier arrows; manage unlocks the
// administrative overrides regardless of who currently holds the
// resource.
//
// current.Equal(next) is the no-op case and is not itself a
// transition failure; callers must check it before calling
// validateTransition and skip the commit pipeline entirely.
func validateTransition(current, next types.Status, caller types.UserID, manage bool) error {
	if writeTierAllows(current, next, caller) {
		return nil
	}
	if manage && manageTierAllows(current, next) {
		return nil
	}
	if manage {
		return werr.New(werr.InvalidTransition, "no such transition: "+current.String()+" -> "+next.String())
	}
	return werr.New(werr.PermissionDenied, "transition requires manage privilege: "+current.String()+" -> "+next.String())
}

func writeTierAllows(current, next types.Status, caller types.UserID) bool {
	switch {
	case current.Kind == types.Free && next.Kind == types.InUse && next.User == caller:
		return true
	case current.Kind == types.Free && next.Kind == types.Reserved && next.User == caller:
		return true
	case current.Kind == types.InUse && current.User == caller && next.Kind == types.Free:
		return true
	case current.Kind == types.InUse && current.User == caller && next.Kind == types.ToCheck && next.User == caller:
		return true
	case current.Kind == types.Reserved && current.User == caller && next.Kind == types.InUse && next.User == caller:
		return true
	case current.Kind == types.Reserved && current.User == caller && next.Kind == types.Free:
		return true
	default:
		return false
	}
}

func manageTierAllows(current, next types.Status) bool {
	switch {
	case next.Kind == types.Blocked:
		return true
	case next.Kind == types.Disabled:
		return true
	case current.Kind == types.ToCheck && next.Kind == types.Free:
		return true
	case current.Kind == types.Blocked && next.Kind == types.Free:
		return true
	default:
		return false
	}
}
