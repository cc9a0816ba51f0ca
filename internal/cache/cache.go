// Package cache is the persistent hash cache described in spec.md §4.5: a
// single opaque key/value store, keyed by canonicalised absolute root
// paths, holding a serialised {relative path -> CachedRecord} mapping per
// root. The store itself (go.etcd.io/bbolt) is treated as an opaque
// collaborator, the way backend/hasher/kv.go treats it in the teacher.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/jsiebens/dedup/internal/dlog"
)

const bucketName = "dedup-cache"

// Entry is the persisted form of one file's cached hash state: spec.md
// §3's CachedRecord.
type Entry struct {
	Size  uint64 `msgpack:"size"`
	Mtime int64  `msgpack:"mtime"`
	Hash  []byte `msgpack:"hash,omitempty"`
}

// Snapshot is the persisted form of one root's cache entries: spec.md §3's
// CacheFile value, a mapping from relative path to Entry.
type Snapshot map[string]Entry

// Store owns the open-read and open-write handles across every root
// processed in one run, per spec.md §3's ownership rule.
type Store struct {
	path      string
	stagePath string
	readDB    *bbolt.DB
	writeDB   *bbolt.DB
}

// Open opens the cache file at path for reading (if it exists and opens
// cleanly) and, unless dryrun, stages a fresh write handle alongside it.
// A write-open failure is not fatal: it is logged and the run proceeds
// without a writable cache, per spec.md §7's CacheWriteOpen recovery.
func Open(path string, dryrun bool) *Store {
	s := &Store{path: path, stagePath: path + ".staging"}

	if db, err := bbolt.Open(path, 0o644, &bbolt.Options{ReadOnly: true}); err == nil {
		s.readDB = db
	}

	if dryrun {
		return s
	}

	os.Remove(s.stagePath)
	db, err := bbolt.Open(s.stagePath, 0o644, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Index file %s is not writable.\n", path)
		return s
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Index file %s is not writable.\n", path)
		db.Close()
		os.Remove(s.stagePath)
		return s
	}
	s.writeDB = db
	return s
}

// Writable reports whether a write handle is open.
func (s *Store) Writable() bool {
	return s != nil && s.writeDB != nil
}

// Get returns the cached Snapshot for root, or an empty Snapshot if the
// store has no read handle or no entry for this root.
func (s *Store) Get(root string) (Snapshot, error) {
	if s == nil || s.readDB == nil {
		return Snapshot{}, nil
	}
	key, err := canonicalKey(root)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err = s.readDB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		raw := b.Get(key)
		if raw == nil {
			return nil
		}
		return msgpack.Unmarshal(raw, &snap)
	})
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "cache get")
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}

// Set replaces the persisted entries for root with snap, a complete
// replacement rather than a merge, per spec.md §3's lifecycle rule.
func (s *Store) Set(root string, snap Snapshot) error {
	if !s.Writable() {
		return nil
	}
	key, err := canonicalKey(root)
	if err != nil {
		return err
	}
	raw, err := msgpack.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "cache encode")
	}
	err = s.writeDB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(key, raw)
	})
	if err != nil {
		return errors.Wrap(err, "cache put")
	}
	return nil
}

// Finish commits the staged write handle over the original cache file. If
// no write handle was ever opened, Finish is a no-op; the staging file
// never replaces the original in that case.
func (s *Store) Finish() error {
	if s == nil {
		return nil
	}
	if s.readDB != nil {
		s.readDB.Close()
		s.readDB = nil
	}
	if s.writeDB == nil {
		return nil
	}
	if err := s.writeDB.Close(); err != nil {
		return errors.Wrap(err, "cache finish: close staging")
	}
	if err := os.Rename(s.stagePath, s.path); err != nil {
		return errors.Wrap(err, "cache finish: rename staging over original")
	}
	s.writeDB = nil
	return nil
}

func canonicalKey(root string) ([]byte, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "canonicalize root")
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// root may not exist yet under test fixtures; fall back to the
		// absolute, non-symlink-resolved path rather than failing the run.
		dlog.Debugf("cache: could not resolve symlinks in %s: %v", abs, err)
		resolved = abs
	}
	return []byte(resolved), nil
}
