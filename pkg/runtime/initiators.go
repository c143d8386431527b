package runtime

import (
	"github.com/hsguild/warden/pkg/config"
	"github.com/hsguild/warden/pkg/initiator"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// initiatorUserPrefix namespaces the synthetic identity each initiator
// edge proposes transitions under, so an initiator's claims never
// collide with a real directory user of the same name.
const initiatorUserPrefix = "initiator:"

// buildInitiatorSource constructs the Source named by mod ("dummy" or
// "process"). Dummy needs the synthetic user it will claim the
// resource for; process reads states from a spawned command's stdout
// and carries no user of its own.
func buildInitiatorSource(name string, mod config.Module, user types.UserID) (initiator.Source, error) {
	switch mod.Module {
	case "dummy":
		return initiator.NewDummySource(user), nil
	case "process":
		return initiator.NewProcessSource(name, mod.Params)
	default:
		return nil, werr.New(werr.ConfigInvalid, "initiator "+name+": unknown module "+mod.Module)
	}
}

// wireInitiators instantiates every configured initiator and attaches
// one Driver per init_connections edge, proposing against its target
// resource under a per-edge synthetic identity.
func (rt *Runtime) wireInitiators() error {
	for _, conn := range rt.cfg.InitConnections {
		mod, ok := rt.cfg.Initiators[conn.Initiator]
		if !ok {
			return werr.New(werr.ConfigInvalid, "init_connections: unknown initiator "+conn.Initiator)
		}

		id := types.ResourceID(conn.Resource)
		r, err := rt.registry.Get(id)
		if err != nil {
			return err
		}

		user := types.UserID(initiatorUserPrefix + conn.Initiator)
		source, err := buildInitiatorSource(conn.Initiator, mod, user)
		if err != nil {
			return err
		}

		sessionID := conn.Initiator + "@" + conn.Resource
		rt.initiatorDrivers = append(rt.initiatorDrivers, initiator.NewDriver(id, conn.Initiator, sessionID, user, source, r))
	}
	return nil
}
