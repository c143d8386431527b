package users

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// fileUser is the TOML-document shape of one user record: the uid
// itself comes from the enclosing map key, so it is not a field here.
type fileUser struct {
	Password string            `toml:"password"`
	Roles    []string          `toml:"roles"`
	Attrs    map[string]string `toml:"attributes,omitempty"`
}

// LoadFile replaces the entire directory with the contents of a TOML
// document of the form {uid = {password = ..., roles = [...]}}. Any
// password not already in argon2id form is treated as plaintext and
// rehashed with a fresh salt. The whole directory is cleared and
// repopulated inside a single write transaction, so a reader never
// observes a partially loaded directory.
func (d *Directory) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return werr.Wrap(werr.IoFailure, err, "read user file")
	}
	var doc map[string]fileUser
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return werr.Wrap(werr.ConfigInvalid, err, "parse user file")
	}

	records := make(map[string]types.User, len(doc))
	for uid, fu := range doc {
		hash := fu.Password
		if hash != "" && !isHashed(hash) {
			h, err := hashPassword(hash)
			if err != nil {
				return werr.Wrap(werr.IoFailure, err, "hash password for "+uid)
			}
			hash = h
		}
		roles := make([]types.RoleIdentifier, 0, len(fu.Roles))
		for _, r := range fu.Roles {
			roles = append(roles, types.ParseRoleIdentifier(r))
		}
		records[uid] = types.User{
			ID:           types.UserID(uid),
			PasswordHash: hash,
			Roles:        roles,
			Attributes:   fu.Attrs,
		}
	}

	return d.typed.Update(func(txn *tdb.Txn) error {
		if err := clearBucket(txn); err != nil {
			return werr.Wrap(werr.IoFailure, err, "clear user directory")
		}
		for uid, u := range records {
			if err := d.typed.Put(txn, []byte(uid), u); err != nil {
				return werr.Wrap(werr.IoFailure, err, "write user "+uid)
			}
		}
		return nil
	})
}

// clearBucket deletes every key currently in txn's bucket.
func clearBucket(txn *tdb.Txn) error {
	c := txn.Cursor()
	var keys [][]byte
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		cp := make([]byte, len(k))
		copy(cp, k)
		keys = append(keys, cp)
	}
	for _, k := range keys {
		if err := txn.Del(k); err != nil {
			return err
		}
	}
	return nil
}

// DumpFile writes the directory out as a TOML document. It refuses to
// overwrite an existing file unless force is set.
func (d *Directory) DumpFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return werr.New(werr.IoFailure, "refusing to overwrite existing file: "+path)
		}
	}

	all, err := d.All()
	if err != nil {
		return err
	}
	doc := make(map[string]fileUser, len(all))
	for _, u := range all {
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, r.String())
		}
		doc[string(u.ID)] = fileUser{
			Password: u.PasswordHash,
			Roles:    roles,
			Attrs:    u.Attributes,
		}
	}

	raw, err := toml.Marshal(doc)
	if err != nil {
		return werr.Wrap(werr.IoFailure, err, "encode user file")
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return werr.Wrap(werr.IoFailure, err, "write user file")
	}
	return nil
}
