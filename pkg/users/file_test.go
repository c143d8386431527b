package users

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

const bobHash = "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNo"

var sampleTOML = `
[alice]
password = "s3cret"
roles = ["member", "admin/builtin"]

[bob]
password = "` + bobHash + `"
roles = ["guest"]
`

func TestLoadFileRehashesPlaintext(t *testing.T) {
	dir := openTestDirectory(t)
	path := filepath.Join(t.TempDir(), "users.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o600))

	require.NoError(t, dir.LoadFile(path))

	alice, err := dir.Get("alice")
	require.NoError(t, err)
	assert.True(t, isHashed(alice.PasswordHash))
	assert.NotEqual(t, "s3cret", alice.PasswordHash)
	ok, err := dir.CheckPassword("alice", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, alice.Roles, 2)
	assert.Equal(t, types.RoleIdentifier{Name: "admin", Source: "builtin"}, alice.Roles[1])

	bob, err := dir.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, bobHash, bob.PasswordHash) // already-hashed value passes through untouched
}

func TestLoadFileReplacesExistingDirectory(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{ID: "stale"}))

	path := filepath.Join(t.TempDir(), "users.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o600))
	require.NoError(t, dir.LoadFile(path))

	_, err := dir.Get("stale")
	require.Error(t, err)

	all, err := dir.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDumpFileRefusesToOverwrite(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{ID: "alice"}))

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))

	err := dir.DumpFile(path, false)
	require.Error(t, err)

	require.NoError(t, dir.DumpFile(path, true))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "alice")
}

func TestDumpFileRoundTrip(t *testing.T) {
	dir := openTestDirectory(t)
	require.NoError(t, dir.Put(types.User{
		ID:    "alice",
		Roles: []types.RoleIdentifier{{Name: "member"}},
	}))
	require.NoError(t, dir.SetPassword("alice", "s3cret"))

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, dir.DumpFile(path, false))

	dir2 := openTestDirectory(t)
	require.NoError(t, dir2.LoadFile(path))

	ok, err := dir2.CheckPassword("alice", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}
