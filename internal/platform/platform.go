// Package platform wraps the four Unix operations the dedup engine needs
// from the kernel: stat, reflink clone, physical-extent lookup, and hard
// link creation. Each is failable and total over its input contract, per
// spec.md §4.1.
package platform

import (
	"fmt"
	"os"
	"syscall"
)

// Info is the subset of stat(2) the engine needs.
type Info struct {
	Dev   uint64
	Ino   uint64
	Size  uint64
	Mtime int64 // seconds since the Unix epoch
	Mode  os.FileMode
}

// Stat performs a standard Unix stat. It does not follow a final symlink
// component differently from os.Stat; callers that must distinguish
// symlinks use os.Lstat themselves before calling Stat on a resolved path.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %q: %w", path, err)
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return Info{}, fmt.Errorf("stat %q: unsupported platform stat_t", path)
	}
	return Info{
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Size:  uint64(fi.Size()),
		Mtime: fi.ModTime().Unix(),
		Mode:  fi.Mode(),
	}, nil
}

// HardLink creates a hard link at dst pointing to src's inode. If dst
// already exists it is unlinked first, per spec.md §4.1's replace
// semantics.
func HardLink(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("hardlink: remove existing %q: %w", dst, err)
		}
	}
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("hardlink %q -> %q: %w", src, dst, err)
	}
	return nil
}
