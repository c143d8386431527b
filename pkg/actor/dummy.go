package actor

import (
	"context"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/types"
)

// Dummy logs every state it is asked to apply and does nothing else.
// It exists for configuration testing and demos where no real
// actuator is wired up.
type Dummy struct {
	Name   string
	Params map[string]string
}

func NewDummy(name string, params map[string]string) *Dummy {
	return &Dummy{Name: name, Params: params}
}

func (d *Dummy) Apply(ctx context.Context, status types.Status) error {
	log.Logger.Info().
		Str("actor", d.Name).
		Interface("params", d.Params).
		Str("state", status.String()).
		Msg("dummy actor updating state")
	return nil
}
