package dedup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsiebens/dedup/internal/dlog"
	"github.com/jsiebens/dedup/internal/platform"
	"github.com/jsiebens/dedup/internal/record"
)

// Options configures one pipeline run, mirroring the CLI surface of
// spec.md §6.
type Options struct {
	DryRun    bool
	HardLinks bool
	Paranoid  bool
	Quiet     bool
}

// alreadyLinked implements spec.md §4.4's already_linked check: two
// records are treated as already sharing storage if they're hardlinked to
// the same inode, or — for reflinks — if their first physical extent
// matches. Any extent-probe error is treated as "assume already shared",
// per spec.md §7's ExtentProbeError recovery: better to leave two copies
// than risk corruption on a filesystem the probe cannot interrogate.
func alreadyLinked(root string, rep, dest *record.File) bool {
	if rep.Dev != dest.Dev {
		return false
	}
	if rep.Ino == dest.Ino {
		return true
	}

	repExtent, repErr := platform.FirstExtent(filepath.Join(root, rep.Path))
	destExtent, destErr := platform.FirstExtent(filepath.Join(root, dest.Path))
	if repErr != nil || destErr != nil {
		return true
	}
	return repExtent == destExtent
}

// materialiseLink replaces dest with a link (reflink or hard link,
// depending on opts.HardLinks) to rep, unless opts.DryRun or the pair is
// already sharing storage. It returns true if a link was made or would
// have been made in dry-run mode — the condition spec.md §4.4 ties the
// bytes-saved counter to.
func materialiseLink(root string, rep, dest *record.File, opts Options) (bool, error) {
	if alreadyLinked(root, rep, dest) {
		dlog.Debugf("dedup: %s and %s already share storage, skipping", rep.Path, dest.Path)
		return false, nil
	}

	if opts.DryRun {
		return true, nil
	}

	repPath := filepath.Join(root, rep.Path)
	destPath := filepath.Join(root, dest.Path)

	if opts.HardLinks {
		if err := platform.HardLink(repPath, destPath); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := reflink(repPath, destPath); err != nil {
		return false, err
	}
	return true, nil
}

// reflink clones the file at repPath into a temporary sibling of destPath
// and renames it over destPath only after the clone succeeds. This is the
// fix spec.md §9 calls for: older revisions left a zero-length file at the
// destination on clone failure, which is data loss; renaming in only on
// success means a failed clone never touches the destination at all.
func reflink(repPath, destPath string) error {
	destMode := os.FileMode(0o644)
	if fi, err := os.Stat(destPath); err == nil {
		destMode = fi.Mode()
	}

	tmpPath := filepath.Join(filepath.Dir(destPath), platform.RandomName(".dedup-clone."))

	src, err := os.Open(repPath)
	if err != nil {
		return fmt.Errorf("reflink: open %q: %w", repPath, err)
	}
	defer src.Close()

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("reflink: create %q: %w", tmpPath, err)
	}

	ok, err := platform.Clone(src, tmp)
	tmp.Close()
	if err != nil || !ok {
		os.Remove(tmpPath)
		if err != nil {
			return fmt.Errorf("reflink: clone %q -> %q: %w", repPath, destPath, err)
		}
		return fmt.Errorf("reflink: clone refused for %q -> %q", repPath, destPath)
	}

	if err := os.Chmod(tmpPath, destMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("reflink: restore mode on %q: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("reflink: rename %q -> %q: %w", tmpPath, destPath, err)
	}
	return nil
}
