// Package scan walks a directory tree and produces a size-bucketed index of
// deduplication candidates, per spec.md §4.2.
package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsiebens/dedup/internal/platform"
	"github.com/jsiebens/dedup/internal/record"
)

// Checks runs the preflight checks spec.md §4.2 requires before a root is
// scanned: the root must exist and be a directory, the process must be able
// to create a file inside it, and — when reflink is true — the underlying
// filesystem must support the clone ioctl. It returns a human-readable
// error naming the offending root on any failure; the caller treats that as
// a skip-this-root, nonzero-exit condition.
func Checks(root string, reflink bool) error {
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("directory %s does not exist", root)
	}
	if !fi.IsDir() {
		return fmt.Errorf("file %s is not a directory", root)
	}

	tmp0 := filepath.Join(root, platform.RandomName(".dedup0."))
	f0, err := os.Create(tmp0)
	if err != nil {
		return fmt.Errorf("directory %s is not writable", root)
	}
	f0.Close()
	defer os.Remove(tmp0)

	if !reflink {
		return nil
	}

	tmp1 := filepath.Join(root, platform.RandomName(".dedup1."))
	f1, err := os.Create(tmp1)
	if err != nil {
		return fmt.Errorf("directory %s is not writable", root)
	}
	defer func() {
		f1.Close()
		os.Remove(tmp1)
	}()

	src, err := os.Open(tmp0)
	if err != nil {
		return fmt.Errorf("directory %s is not writable", root)
	}
	defer src.Close()

	ok, err := platform.Clone(src, f1)
	if err != nil || !ok {
		return fmt.Errorf("underlying filesystem for %s does not support reflinks", root)
	}
	return nil
}

// Scan recursively walks root and returns a size-bucketed Index of every
// regular, non-symlink file with size > 0 that resides on root's device.
// Symbolic links are never followed, never recursed into, never recorded.
// Subdirectories are only descended into when their device matches root's,
// enforcing the filesystem-boundary rule of spec.md §4.2.
func Scan(root string) (record.Index, error) {
	rootInfo, err := platform.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	idx := make(record.Index)
	if err := scanDir(idx, root, root, rootInfo.Dev); err != nil {
		return nil, err
	}
	return idx, nil
}

func scanDir(idx record.Index, root, dir string, rootDev uint64) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan: read dir %q: %w", dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			info, err := platform.Stat(full)
			if err != nil {
				continue
			}
			if info.Dev != rootDev {
				continue
			}
			if err := scanDir(idx, root, full, rootDev); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := platform.Stat(full)
		if err != nil {
			continue
		}
		if info.Size == 0 {
			continue
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}

		idx.Add(&record.File{
			Path:  rel,
			Size:  info.Size,
			Mtime: info.Mtime,
			Dev:   info.Dev,
			Ino:   info.Ino,
		})
	}
	return nil
}
