package tdb

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Environment is a memory-mapped, copy-on-write transactional store
// holding any number of named sub-databases. It is a thin wrapper
// over *bolt.DB — bbolt already provides the serialized-writer,
// overlapping-reader contract spec.md §4.1 asks for.
type Environment struct {
	db   *bolt.DB
	path string
}

// OpenEnvironment opens (creating if necessary) the environment file
// at path. The caller asserts that any existing file was itself
// written by tdb (spec.md's "unsafe contract" on open/create).
func OpenEnvironment(path string) (*Environment, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, newErr(IO, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, wrapBoltErr(err)
	}
	return &Environment{db: db, path: path}, nil
}

// Close closes the environment.
func (e *Environment) Close() error {
	if err := e.db.Close(); err != nil {
		return wrapBoltErr(err)
	}
	return nil
}

// Path returns the environment's backing file path.
func (e *Environment) Path() string { return e.path }

// Create opens a sub-database by name, creating it if it does not yet
// exist. The sub-database itself carries no format tag; TypedDB
// writes its version byte into each value (see codec.go).
func (e *Environment) Create(name string) (*Database, error) {
	bucket := []byte(name)
	err := e.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, wrapBoltErr(err)
	}
	return &Database{env: e, name: bucket}, nil
}

// Open opens an existing sub-database, failing with NotFound if it
// has never been created. Callers that always want create-if-missing
// semantics should use Create instead.
func (e *Environment) Open(name string) (*Database, error) {
	bucket := []byte(name)
	err := e.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
	if err != nil {
		return nil, wrapBoltErr(err)
	}
	return &Database{env: e, name: bucket}, nil
}

// Database is a handle to one named sub-database within an Environment.
type Database struct {
	env  *Environment
	name []byte
}

// Txn is a handle to one bbolt transaction scoped to a single Database.
type Txn struct {
	tx     *bolt.Tx
	bucket *bolt.Bucket
}

// View runs fn in a read-only transaction. Multiple read transactions
// may run concurrently with each other and with in-flight writers.
func (d *Database) View(fn func(txn *Txn) error) error {
	err := d.env.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(d.name)
		if b == nil {
			return bolt.ErrBucketNotFound
		}
		return fn(&Txn{tx: tx, bucket: b})
	})
	return wrapBoltErr(err)
}

// Update runs fn in a read-write transaction. Write transactions
// across the whole Environment are strictly serialized by bbolt.
func (d *Database) Update(fn func(txn *Txn) error) error {
	err := d.env.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(d.name)
		if err != nil {
			return err
		}
		return fn(&Txn{tx: tx, bucket: b})
	})
	return wrapBoltErr(err)
}

// Get returns the raw bytes stored at key. A missing key is reported
// as (nil, false, nil) — NotFound surfaces as a false found flag, not
// an error, matching spec.md's "NotFound is surfaced as Ok(None)".
func (t *Txn) Get(key []byte) (value []byte, found bool, err error) {
	v := t.bucket.Get(key)
	if v == nil {
		return nil, false, nil
	}
	// bbolt's Get returns a slice valid only for the transaction's
	// lifetime; copy it out so callers may retain it afterwards.
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Put stores value at key, overwriting any existing entry.
func (t *Txn) Put(key, value []byte) error {
	if err := t.bucket.Put(key, value); err != nil {
		return wrapBoltErr(err)
	}
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (t *Txn) Del(key []byte) error {
	if err := t.bucket.Delete(key); err != nil {
		return wrapBoltErr(err)
	}
	return nil
}

// Cursor returns a cursor over this transaction's bucket, iterating
// in key order.
func (t *Txn) Cursor() *Cursor {
	return &Cursor{c: t.bucket.Cursor()}
}

// Cursor wraps a bbolt cursor for ordered iteration.
type Cursor struct {
	c *bolt.Cursor
}

func (c *Cursor) First() (key, value []byte) { return c.c.First() }
func (c *Cursor) Next() (key, value []byte)  { return c.c.Next() }
func (c *Cursor) Seek(prefix []byte) (key, value []byte) { return c.c.Seek(prefix) }
