package tdb

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	bolt "go.etcd.io/bbolt"
)

// HashIndex maps arbitrary keys through a stable hash into 8-byte
// integer buckets, for databases whose natural key is large or
// variable-length (e.g. a resource URN) but whose storage wants a
// fixed-width primary key. bbolt has no native dupsort the way LMDB
// does, so collisions are resolved with a nested bucket per hash: the
// real key becomes the nested bucket's key, and a collision scan is
// just bbolt's own lookup inside that nested bucket.
type HashIndex struct {
	db *Database
}

// NewHashIndex wraps db as a hash-keyed store.
func NewHashIndex(db *Database) *HashIndex {
	return &HashIndex{db: db}
}

func hashKey(realKey []byte) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(realKey))
	return buf[:]
}

// Put stores value under realKey, hashed into an 8-byte bucket key.
func (h *HashIndex) Put(txn *Txn, realKey, value []byte) error {
	nested, err := txn.bucket.CreateBucketIfNotExists(hashKey(realKey))
	if err != nil {
		return wrapBoltErr(err)
	}
	if err := nested.Put(realKey, value); err != nil {
		return wrapBoltErr(err)
	}
	return nil
}

// Get looks up realKey by hashing it and scanning the resulting
// nested bucket for the exact key, resolving any hash collision.
func (h *HashIndex) Get(txn *Txn, realKey []byte) (value []byte, found bool, err error) {
	nested := txn.bucket.Bucket(hashKey(realKey))
	if nested == nil {
		return nil, false, nil
	}
	v := nested.Get(realKey)
	if v == nil {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Del removes realKey from its hash bucket. Deleting a missing key is
// not an error. An emptied nested bucket is pruned.
func (h *HashIndex) Del(txn *Txn, realKey []byte) error {
	hk := hashKey(realKey)
	nested := txn.bucket.Bucket(hk)
	if nested == nil {
		return nil
	}
	if err := nested.Delete(realKey); err != nil {
		return wrapBoltErr(err)
	}
	if nested.Stats().KeyN == 0 {
		if err := txn.bucket.DeleteBucket(hk); err != nil && err != bolt.ErrBucketNotFound {
			return wrapBoltErr(err)
		}
	}
	return nil
}

// ForEach visits every (realKey, value) pair across all hash buckets.
// Iteration order is by hash, not by realKey.
func (h *HashIndex) ForEach(txn *Txn, fn func(realKey, value []byte) error) error {
	return txn.bucket.ForEach(func(hk, v []byte) error {
		if v != nil {
			// a plain top-level entry, not a hash bucket; skip it.
			return nil
		}
		nested := txn.bucket.Bucket(hk)
		if nested == nil {
			return nil
		}
		return nested.ForEach(fn)
	})
}
