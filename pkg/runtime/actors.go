package runtime

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hsguild/warden/pkg/actor"
	"github.com/hsguild/warden/pkg/config"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// buildActor constructs the actor named by mod ("dummy", "process" or
// "shelly"), lazily connecting the shared MQTT client the first time a
// shelly actor is encountered.
func (rt *Runtime) buildActor(name string, mod config.Module) (actor.Actor, error) {
	switch mod.Module {
	case "dummy":
		return actor.NewDummy(name, mod.Params), nil
	case "process":
		p, ok := actor.NewProcess(name, mod.Params)
		if !ok {
			return nil, werr.New(werr.ConfigInvalid, "actor "+name+": process module requires a cmd parameter")
		}
		return p, nil
	case "shelly":
		client, err := rt.mqttClient()
		if err != nil {
			return nil, err
		}
		return actor.NewShelly(name, client, mod.Params), nil
	default:
		return nil, werr.New(werr.ConfigInvalid, "actor "+name+": unknown module "+mod.Module)
	}
}

// mqttClient returns the runtime's shared MQTT client, connecting it
// on first use. Every Shelly actor publishes through the same
// connection regardless of which resource it actuates.
func (rt *Runtime) mqttClient() (mqtt.Client, error) {
	if rt.mqtt != nil {
		return rt.mqtt, nil
	}
	opts := mqtt.NewClientOptions().AddBroker(rt.cfg.MQTTURL)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, werr.Wrap(werr.IoFailure, token.Error(), "connect to mqtt broker")
	}
	rt.mqtt = client
	return client, nil
}

// wireActors instantiates every configured actor and attaches one
// Driver per actor_connections edge, subscribed to its resource's
// state signal.
func (rt *Runtime) wireActors() error {
	built := make(map[string]actor.Actor, len(rt.cfg.Actors))
	for name, mod := range rt.cfg.Actors {
		a, err := rt.buildActor(name, mod)
		if err != nil {
			return err
		}
		built[name] = a
	}

	for _, conn := range rt.cfg.ActorConnections {
		a, ok := built[conn.Actor]
		if !ok {
			return werr.New(werr.ConfigInvalid, "actor_connections: unknown actor "+conn.Actor)
		}
		id := types.ResourceID(conn.Resource)
		r, err := rt.registry.Get(id)
		if err != nil {
			return err
		}
		states, unsubscribe := r.Subscribe()
		rt.actorDrivers = append(rt.actorDrivers, actor.NewDriver(id, conn.Actor, a, states, unsubscribe))
	}
	return nil
}
