package dedup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsiebens/dedup/internal/cache"
	"github.com/jsiebens/dedup/internal/hasher"
	"github.com/jsiebens/dedup/internal/humanterm"
	"github.com/jsiebens/dedup/internal/record"
	"github.com/jsiebens/dedup/internal/scan"
)

// Driver orchestrates the per-root pipeline of spec.md §4.6: preflight,
// scan, hash (with cache), group, and link, sequentially across however
// many roots the CLI was given.
type Driver struct {
	Cache *cache.Store
	Out   io.Writer
	Opts  Options
}

// Run processes every root in turn and returns the cumulative bytes-saved
// count. A preflight failure for any root is reported to stderr and that
// root is skipped; Run itself returns an error only once every root has
// been attempted, so the caller can still print a partial total before
// exiting nonzero — mirroring spec.md §4.6's "abort program with exit 1"
// note, applied across all roots rather than stopping at the first.
func (d *Driver) Run(roots []string) (uint64, error) {
	var total uint64
	var failed bool

	for _, root := range roots {
		root = normalizeRoot(root)

		if err := scan.Checks(root, !d.Opts.HardLinks); err != nil {
			d.reportPreflightFailure(err)
			failed = true
			continue
		}

		saved, err := d.runRoot(root)
		if err != nil {
			d.reportPreflightFailure(err)
			failed = true
			continue
		}
		total += saved
	}

	if d.Cache != nil {
		if err := d.Cache.Finish(); err != nil {
			return total, err
		}
	}

	if failed {
		return total, errPreflightFailed
	}
	return total, nil
}

var errPreflightFailed = fmt.Errorf("one or more roots failed preflight checks")

func (d *Driver) reportPreflightFailure(err error) {
	fmt.Fprintln(os.Stderr, err)
}

func (d *Driver) runRoot(root string) (uint64, error) {
	if !d.Opts.Quiet {
		fmt.Fprintf(d.Out, "Scanning %s directory ...\n", humanterm.Bold(root))
	}

	idx, err := scan.Scan(root)
	if err != nil {
		return 0, err
	}
	idx.RetainDuplicateBuckets()

	var prior cache.Snapshot
	if d.Cache != nil {
		prior, err = d.Cache.Get(root)
		if err != nil {
			return 0, err
		}
	}

	if !d.Opts.Quiet {
		fmt.Fprintln(d.Out, "Computing file hashes ...")
	}

	if err := hasher.Hash(idx, root, prior, d.Opts.Paranoid); err != nil {
		return 0, err
	}

	if d.Cache != nil {
		if err := d.Cache.Set(root, snapshotOf(idx)); err != nil {
			return 0, err
		}
	}

	return d.linkAll(root, idx)
}

func (d *Driver) linkAll(root string, idx record.Index) (uint64, error) {
	var saved uint64
	for _, bucket := range idx {
		for _, cls := range partition(bucket) {
			for _, dest := range cls.dests {
				linked, err := materialiseLink(root, cls.rep, dest, d.Opts)
				if err != nil {
					return saved, err
				}
				if !linked {
					continue
				}
				saved += dest.Size
				if !d.Opts.Quiet {
					fmt.Fprintf(d.Out, "%s%s => %s%s [%s]\n",
						root, cls.rep.Path, root, dest.Path, humanterm.Bytes(dest.Size))
				}
			}
		}
	}
	return saved, nil
}

// snapshotOf builds a fresh cache.Snapshot from idx, including only records
// whose primary digest was computed — the persisted digest is always the
// primary one, even in paranoid mode, per spec.md §4.5.
func snapshotOf(idx record.Index) cache.Snapshot {
	snap := cache.Snapshot{}
	for _, bucket := range idx {
		for _, f := range bucket {
			if !f.HasDigest {
				continue
			}
			entry := cache.Entry{Size: f.Size, Mtime: f.Mtime, Hash: append([]byte(nil), f.Digest[:]...)}
			snap[f.Path] = entry
		}
	}
	return snap
}

// normalizeRoot ensures root ends with a directory separator, so that
// relative paths inside records do not accidentally form absolute paths
// when joined for display, per spec.md §4.6 step 1.
func normalizeRoot(root string) string {
	if strings.HasSuffix(root, "/") {
		return root
	}
	return root + "/"
}
