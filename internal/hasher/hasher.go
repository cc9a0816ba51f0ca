// Package hasher computes the content digests spec.md §4.3 requires: a
// fast 256-bit primary cryptographic hash, with cache-probe shortcutting,
// and an independent 256-bit secondary hash under paranoid mode.
package hasher

import (
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	sha256simd "github.com/minio/sha256-simd"
	"lukechampine.com/blake3"

	"github.com/jsiebens/dedup/internal/cache"
	"github.com/jsiebens/dedup/internal/dlog"
	"github.com/jsiebens/dedup/internal/record"
)

// bufSize is the fixed read-buffer size spec.md §4.3 mandates.
const bufSize = 32 * 1024

// Hash computes digests for every record in every bucket of idx. paths are
// resolved relative to root. prior is the previous run's cache snapshot for
// this root (empty if none); it is consulted only when paranoid is false.
//
// Any I/O error during hashing is returned immediately and stops hashing
// for this root; the pipeline driver then abandons the root with a
// diagnostic, goes on with the remaining roots, and exits nonzero.
func Hash(idx record.Index, root string, prior cache.Snapshot, paranoid bool) error {
	for _, bucket := range idx {
		for _, f := range bucket {
			if err := hashOne(f, root, prior, paranoid); err != nil {
				return err
			}
		}
	}
	return nil
}

func hashOne(f *record.File, root string, prior cache.Snapshot, paranoid bool) error {
	if !paranoid {
		if entry, ok := prior[f.Path]; ok {
			if entry.Size == f.Size && entry.Mtime == f.Mtime && len(entry.Hash) == 32 {
				copy(f.Digest[:], entry.Hash)
				f.HasDigest = true
				dlog.Debugf("hasher: cache hit for %s", f.Path)
			}
		}
	}

	if f.HasDigest && !paranoid {
		return nil
	}

	full := filepath.Join(root, f.Path)
	file, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("hasher: open %q: %w", full, err)
	}
	defer file.Close()

	primary := blake3.New(32, nil)
	var secondary hash.Hash
	if paranoid {
		secondary = sha256simd.New()
	}

	buf := make([]byte, bufSize)
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			primary.Write(buf[:n])
			if secondary != nil {
				secondary.Write(buf[:n])
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("hasher: read %q: %w", full, readErr)
		}
	}

	sum := primary.Sum(nil)
	copy(f.Digest[:], sum)
	f.HasDigest = true

	if paranoid {
		copy(f.LongDigest[:], secondary.Sum(nil))
		f.HasLong = true
	}
	return nil
}
