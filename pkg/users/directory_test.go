package users

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

func openTestDirectory(t *testing.T) *Directory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	env, err := tdb.OpenEnvironment(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	dir, err := Open(env)
	require.NoError(t, err)
	return dir
}

func TestDirectoryPutGetDelete(t *testing.T) {
	dir := openTestDirectory(t)

	u := types.User{ID: "alice", Roles: []types.RoleIdentifier{{Name: "member"}}}
	require.NoError(t, dir.Put(u))

	got, err := dir.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, dir.Delete("alice"))
	_, err = dir.Get("alice")
	require.Error(t, err)
	assert.Equal(t, werr.NotFound, werr.KindOf(err))
}

func TestDirectorySetAndCheckPassword(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{ID: "bob"}))

	require.NoError(t, dir.SetPassword("bob", "hunter2"))

	ok, err := dir.CheckPassword("bob", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.CheckPassword("bob", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryCheckPasswordNoneSetNeverMatches(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{ID: "carol"}))

	ok, err := dir.CheckPassword("carol", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryAll(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{ID: "a"}))
	require.NoError(t, dir.Put(types.User{ID: "b"}))

	all, err := dir.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
