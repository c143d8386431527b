package initiator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

func writeSourceScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process initiator test requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "source.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestProcessSourceParsesStatusLines(t *testing.T) {
	script := writeSourceScript(t, `
echo '{"state":{"kind":"InUse","user":"alice"}}'
echo '{"state":{"kind":"Free"}}'
sleep 5
`)
	src, err := NewProcessSource("bench", map[string]string{"cmd": script})
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st1, ok := src.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, types.StatusInUse("alice"), st1)

	st2, ok := src.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, types.StatusFree(), st2)
}

func TestProcessSourceSkipsInvalidLines(t *testing.T) {
	script := writeSourceScript(t, `
echo 'not json'
echo '{"state":{"kind":"Free"}}'
sleep 5
`)
	src, err := NewProcessSource("bench", map[string]string{"cmd": script})
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st, ok := src.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, types.StatusFree(), st)
}

func TestProcessSourceEndsOnChildExit(t *testing.T) {
	script := writeSourceScript(t, `echo '{"state":{"kind":"Free"}}'`+"\n")
	src, err := NewProcessSource("bench", map[string]string{"cmd": script})
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, ok := src.Next(ctx)
	require.True(t, ok)

	_, ok = src.Next(ctx)
	assert.False(t, ok)
}

func TestNewProcessSourceRequiresCmd(t *testing.T) {
	_, err := NewProcessSource("bench", map[string]string{})
	assert.Error(t, err)
}
