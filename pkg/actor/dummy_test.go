package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsguild/warden/pkg/types"
)

func TestDummyApplyNeverFails(t *testing.T) {
	d := NewDummy("bench", map[string]string{"note": "demo"})
	assert.NoError(t, d.Apply(context.Background(), types.StatusInUse("alice")))
	assert.NoError(t, d.Apply(context.Background(), types.StatusFree()))
}
