// Command wardend-fsck opens a warden database read-only and reports,
// bucket by bucket, whether every stored record decodes cleanly. It
// never writes to the database: a deliberately narrow stand-in for the
// original's repair tool, since spec.md never specifies repair
// semantics and an untested rewrite path would be worse than a safe
// report-only check.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// expectedVersion names the one-byte record-format version each
// sub-database's typed adapter currently tags its values with (see
// pkg/tdb/codec.go, pkg/resource/resource.go, pkg/users/directory.go).
// A bucket not listed here is scanned for structural corruption only.
var expectedVersion = map[string]byte{
	"resource": 1,
	"users":    1,
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <db-path>\n", os.Args[0])
		os.Exit(2)
	}

	if err := fsck(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "wardend-fsck: %v\n", err)
		os.Exit(1)
	}
}

func fsck(path string) error {
	db, err := bolt.Open(path, 0o600, &bolt.Options{ReadOnly: true, Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	var incompatible, corrupted int
	err = db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			bucket := string(name)
			want, checkVersion := expectedVersion[bucket]
			entries := 0
			err := b.ForEach(func(k, v []byte) error {
				entries++
				switch {
				case len(v) < 1:
					corrupted++
					fmt.Printf("%s: %x: Corrupted (empty record)\n", bucket, k)
				case checkVersion && v[0] != want:
					incompatible++
					fmt.Printf("%s: %x: Incompatible (version %d, want %d)\n", bucket, k, v[0], want)
				case !json.Valid(v[1:]):
					corrupted++
					fmt.Printf("%s: %x: Corrupted (invalid payload)\n", bucket, k)
				}
				return nil
			})
			fmt.Printf("%s: %d entries\n", bucket, entries)
			return err
		})
	})
	if err != nil {
		return err
	}

	fmt.Printf("checked %s: %d incompatible, %d corrupted\n", path, incompatible, corrupted)
	if incompatible > 0 || corrupted > 0 {
		os.Exit(1)
	}
	return nil
}
