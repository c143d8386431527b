package actor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script actor test requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestProcessApplyPassesResourceStateAndUser(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")
	script := writeScript(t, `echo "$@" > `+outPath+`\n`)

	p, ok := NewProcess("lathe", map[string]string{"cmd": script})
	require.True(t, ok)

	require.NoError(t, p.Apply(context.Background(), types.StatusInUse("alice")))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "lathe inuse alice\n", string(got))
}

func TestProcessApplyFreeHasNoUserArgument(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")
	script := writeScript(t, `echo "$@" > `+outPath+`\n`)

	p, ok := NewProcess("lathe", map[string]string{"cmd": script})
	require.True(t, ok)

	require.NoError(t, p.Apply(context.Background(), types.StatusFree()))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "lathe free\n", string(got))
}

func TestProcessApplyNonzeroExitIsReportedNotPanicked(t *testing.T) {
	script := writeScript(t, "exit 1\n")
	p, ok := NewProcess("lathe", map[string]string{"cmd": script})
	require.True(t, ok)

	err := p.Apply(context.Background(), types.StatusFree())
	assert.Error(t, err)
}

func TestNewProcessRequiresCmd(t *testing.T) {
	_, ok := NewProcess("lathe", map[string]string{})
	assert.False(t, ok)
}

func TestNewProcessSplitsArgs(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")
	script := writeScript(t, `echo "$@" > `+outPath+`\n`)

	p, ok := NewProcess("lathe", map[string]string{"cmd": script, "args": "--flag value"})
	require.True(t, ok)
	require.NoError(t, p.Apply(context.Background(), types.StatusFree()))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "--flag value lathe free\n", string(got))
}
