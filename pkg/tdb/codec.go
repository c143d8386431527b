package tdb

import "encoding/json"

// TypedDB adapts a raw Database to a single Go type T, storing each
// value behind a one-byte format version followed by its JSON
// encoding. The version lets Get detect a schema change and fail with
// Incompatible rather than handing the caller a value decoded from
// bytes it was never written for.
type TypedDB[T any] struct {
	db      *Database
	version byte
}

// NewTypedDB wraps db for values of type T tagged with the given
// format version. version should change whenever T's encoding changes
// in a way that isn't forward compatible.
func NewTypedDB[T any](db *Database, version byte) *TypedDB[T] {
	return &TypedDB[T]{db: db, version: version}
}

func (t *TypedDB[T]) encode(v T) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, newErr(IO, err)
	}
	out := make([]byte, 1+len(payload))
	out[0] = t.version
	copy(out[1:], payload)
	return out, nil
}

func (t *TypedDB[T]) decode(raw []byte) (T, error) {
	var zero T
	if len(raw) < 1 {
		return zero, newErr(Corrupted, nil)
	}
	if raw[0] != t.version {
		return zero, newErr(Incompatible, nil)
	}
	var v T
	if err := json.Unmarshal(raw[1:], &v); err != nil {
		return zero, newErr(Corrupted, err)
	}
	return v, nil
}

// Get fetches and decodes the value stored at key. A missing key
// yields (zero, false, nil).
func (t *TypedDB[T]) Get(txn *Txn, key []byte) (value T, found bool, err error) {
	raw, found, err := txn.Get(key)
	if err != nil || !found {
		var zero T
		return zero, found, err
	}
	v, err := t.decode(raw)
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// Put encodes v and stores it at key.
func (t *TypedDB[T]) Put(txn *Txn, key []byte, v T) error {
	raw, err := t.encode(v)
	if err != nil {
		return err
	}
	return txn.Put(key, raw)
}

// Delete removes key.
func (t *TypedDB[T]) Delete(txn *Txn, key []byte) error {
	return txn.Del(key)
}

// ForEach decodes and visits every entry in key order, stopping at the
// first error returned by fn or the first undecodable entry.
func (t *TypedDB[T]) ForEach(txn *Txn, fn func(key []byte, value T) error) error {
	c := txn.Cursor()
	for k, raw := c.First(); k != nil; k, raw = c.Next() {
		v, err := t.decode(raw)
		if err != nil {
			return err
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// View runs a read-only typed transaction.
func (t *TypedDB[T]) View(fn func(txn *Txn) error) error {
	return t.db.View(fn)
}

// Update runs a read-write typed transaction.
func (t *TypedDB[T]) Update(fn func(txn *Txn) error) error {
	return t.db.Update(fn)
}
