package actor

import (
	"context"

	"github.com/hsguild/warden/pkg/types"
)

// Actor applies a resource's status to some external effect (a relay,
// an indicator, a subprocess). Apply may block; the driver never
// calls it again for the same edge until the previous call returns.
type Actor interface {
	Apply(ctx context.Context, status types.Status) error
}
