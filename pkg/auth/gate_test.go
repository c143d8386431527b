package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/users"
	"github.com/hsguild/warden/pkg/werr"
)

func testGate(t *testing.T) *Gate {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	env, err := tdb.OpenEnvironment(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	dir, err := users.Open(env)
	require.NoError(t, err)
	require.NoError(t, dir.Put(types.User{ID: "alice"}))
	require.NoError(t, dir.SetPassword("alice", "s3cret"))
	require.NoError(t, dir.Put(types.User{ID: "guest"}))

	resolver := NewResolver(dir, "guest")
	return NewGate(resolver, 0)
}

func TestListAvailableMechanismsRequiresTLSForPlain(t *testing.T) {
	g := testGate(t)

	withTLS := g.ListAvailableMechanisms(true)
	assert.Contains(t, withTLS, MechPlain)
	assert.Contains(t, withTLS, MechAnonymous)

	withoutTLS := g.ListAvailableMechanisms(false)
	assert.NotContains(t, withoutTLS, MechPlain)
	assert.Contains(t, withoutTLS, MechAnonymous)
}

func TestStartUnknownMechanismFails(t *testing.T) {
	g := testGate(t)
	_, err := g.Start("BOGUS", true)
	require.Error(t, err)
	assert.Equal(t, werr.MechanismUnavailable, werr.KindOf(err))
}

func TestStartPlainWithoutTLSFails(t *testing.T) {
	g := testGate(t)
	_, err := g.Start(MechPlain, false)
	require.Error(t, err)
	assert.Equal(t, werr.MechanismUnavailable, werr.KindOf(err))
}

func plainInitialResponse(authzid, username, password string) []byte {
	return []byte(authzid + "\x00" + username + "\x00" + password)
}

func TestPlainAuthenticationSuccess(t *testing.T) {
	g := testGate(t)
	s, err := g.Start(MechPlain, true)
	require.NoError(t, err)
	assert.Equal(t, Running, s.State())

	_, done, err := s.Step(plainInitialResponse("", "alice", "s3cret"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, Finished, s.State())
	assert.Equal(t, types.UserID("alice"), s.Identity().UserID)
}

func TestPlainAuthenticationWrongPasswordAborts(t *testing.T) {
	g := testGate(t)
	s, err := g.Start(MechPlain, true)
	require.NoError(t, err)

	_, _, err = s.Step(plainInitialResponse("", "alice", "wrong"))
	require.Error(t, err)
	assert.Equal(t, Aborted, s.State())
}

func TestStepAfterTerminalFails(t *testing.T) {
	g := testGate(t)
	s, err := g.Start(MechPlain, true)
	require.NoError(t, err)
	s.Abort()

	_, _, err = s.Step(plainInitialResponse("", "alice", "s3cret"))
	require.Error(t, err)
	assert.Equal(t, werr.Unauthenticated, werr.KindOf(err))
}

func TestAnonymousAuthenticationResolvesGuest(t *testing.T) {
	g := testGate(t)
	s, err := g.Start(MechAnonymous, false)
	require.NoError(t, err)

	_, done, err := s.Step([]byte("visiting hacker"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, types.UserID("guest"), s.Identity().UserID)
	assert.Equal(t, "visiting hacker", s.Identity().Attributes["trace"])
}

func TestSessionTimesOutAfterInactivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	env, err := tdb.OpenEnvironment(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	dir, err := users.Open(env)
	require.NoError(t, err)
	require.NoError(t, dir.Put(types.User{ID: "alice"}))
	require.NoError(t, dir.SetPassword("alice", "s3cret"))

	g := NewGate(NewResolver(dir, "guest"), 10*time.Millisecond)
	s, err := g.Start(MechPlain, true)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, _, err = s.Step(plainInitialResponse("", "alice", "s3cret"))
	require.Error(t, err)
	assert.Equal(t, Aborted, s.State())
}
