package rpc

import "github.com/hsguild/warden/pkg/types"

// statusToWire and wireToStatus convert between types.Status and the
// plain strings used on the wire (messages.go's Kind/User fields),
// since the JSON codec has no tagged-union support of its own.

func statusToWire(st types.Status) (kind, user string) {
	return string(st.Kind), string(st.User)
}

func wireToStatus(kind, user string) types.Status {
	k := types.StatusKind(kind)
	if k.HasUser() {
		return types.Status{Kind: k, User: types.UserID(user)}
	}
	return types.Status{Kind: k}
}

func describeMachine(desc types.ResourceDescription, state types.Status) MachineDescription {
	return MachineDescription{
		ID:          string(desc.ID),
		URN:         desc.URN(),
		Name:        desc.Name,
		Description: desc.Description.Get(),
		Wiki:        desc.Wiki,
		Category:    desc.Category,
		State:       state.String(),
	}
}
