package tdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEnv(t *testing.T) *Environment {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	env, err := OpenEnvironment(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestDatabaseGetPutDel(t *testing.T) {
	env := openTestEnv(t)
	db, err := env.Create("widgets")
	require.NoError(t, err)

	err = db.Update(func(txn *Txn) error {
		return txn.Put([]byte("a"), []byte("1"))
	})
	require.NoError(t, err)

	err = db.View(func(txn *Txn) error {
		v, found, err := txn.Get([]byte("a"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("1"), v)
		return nil
	})
	require.NoError(t, err)

	err = db.Update(func(txn *Txn) error {
		return txn.Del([]byte("a"))
	})
	require.NoError(t, err)

	err = db.View(func(txn *Txn) error {
		_, found, err := txn.Get([]byte("a"))
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func TestDatabaseGetMissingIsNotAnError(t *testing.T) {
	env := openTestEnv(t)
	db, err := env.Create("widgets")
	require.NoError(t, err)

	err = db.View(func(txn *Txn) error {
		v, found, err := txn.Get([]byte("nope"))
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, v)
		return nil
	})
	require.NoError(t, err)
}

func TestEnvironmentOpenMissingFails(t *testing.T) {
	env := openTestEnv(t)
	_, err := env.Open("never-created")
	require.Error(t, err)
	assert.Equal(t, NotFound, KindOf(err))
}

func TestCursorIteratesInKeyOrder(t *testing.T) {
	env := openTestEnv(t)
	db, err := env.Create("ordered")
	require.NoError(t, err)

	err = db.Update(func(txn *Txn) error {
		for _, k := range []string{"c", "a", "b"} {
			if err := txn.Put([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var seen []string
	err = db.View(func(txn *Txn) error {
		c := txn.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			seen = append(seen, string(k))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}
