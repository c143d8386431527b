package users

import (
	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

const userRecordVersion = 1

// Directory is a thin typed wrapper over TDB's "users" sub-database.
type Directory struct {
	typed *tdb.TypedDB[types.User]
}

// Open opens (creating if necessary) the user directory sub-database
// inside env.
func Open(env *tdb.Environment) (*Directory, error) {
	db, err := env.Create("users")
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "open users database")
	}
	return &Directory{typed: tdb.NewTypedDB[types.User](db, userRecordVersion)}, nil
}

// Get returns the user record for uid, or werr.NotFound if it has no
// entry.
func (d *Directory) Get(uid types.UserID) (types.User, error) {
	var out types.User
	err := d.typed.View(func(txn *tdb.Txn) error {
		u, found, err := d.typed.Get(txn, []byte(uid))
		if err != nil {
			return werr.Wrap(werr.IoFailure, err, "read user")
		}
		if !found {
			return werr.New(werr.NotFound, "no such user: "+string(uid))
		}
		out = u
		return nil
	})
	return out, err
}

// Put stores u, keyed by its ID, overwriting any existing record.
func (d *Directory) Put(u types.User) error {
	return d.typed.Update(func(txn *tdb.Txn) error {
		if err := d.typed.Put(txn, []byte(u.ID), u); err != nil {
			return werr.Wrap(werr.IoFailure, err, "write user")
		}
		return nil
	})
}

// Delete removes uid's record. Deleting a missing user is not an
// error.
func (d *Directory) Delete(uid types.UserID) error {
	return d.typed.Update(func(txn *tdb.Txn) error {
		if err := d.typed.Delete(txn, []byte(uid)); err != nil {
			return werr.Wrap(werr.IoFailure, err, "delete user")
		}
		return nil
	})
}

// All returns every user record in the directory, in key order.
func (d *Directory) All() ([]types.User, error) {
	var out []types.User
	err := d.typed.View(func(txn *tdb.Txn) error {
		return d.typed.ForEach(txn, func(_ []byte, u types.User) error {
			out = append(out, u)
			return nil
		})
	})
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "scan users")
	}
	return out, nil
}

// SetPassword hashes plaintext and stores it on uid's record.
func (d *Directory) SetPassword(uid types.UserID, plaintext string) error {
	u, err := d.Get(uid)
	if err != nil {
		return err
	}
	hash, err := hashPassword(plaintext)
	if err != nil {
		return werr.Wrap(werr.IoFailure, err, "hash password")
	}
	u.PasswordHash = hash
	return d.Put(u)
}

// CheckPassword reports whether plaintext matches uid's stored
// password. A user with no password set never matches.
func (d *Directory) CheckPassword(uid types.UserID, plaintext string) (bool, error) {
	u, err := d.Get(uid)
	if err != nil {
		return false, err
	}
	if u.PasswordHash == "" {
		return false, nil
	}
	return verifyPassword(u.PasswordHash, plaintext), nil
}
