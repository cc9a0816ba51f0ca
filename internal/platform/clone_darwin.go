//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Clone performs an APFS copy-on-write clone of src into dst, following the
// same call shape as the teacher's backend/local/clone_darwin.go: allocate
// nothing extra, clone, report failure as "unsupported" rather than fatal.
// Clonefile, unlike FICLONE, creates its target, so the file at dst's path
// is removed before the clone.
func Clone(src, dst *os.File) (bool, error) {
	srcPath := src.Name()
	dstPath := dst.Name()
	// dst was opened (and truncated) by the caller to reserve the name;
	// Clonefile requires the destination path be free, so remove it first.
	if err := os.Remove(dstPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("clone: remove placeholder %q: %w", dstPath, err)
	}
	err := unix.Clonefile(srcPath, dstPath, unix.CLONE_NOFOLLOW)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EXDEV) {
		return false, nil
	}
	return false, fmt.Errorf("clone: Clonefile %q -> %q: %w", srcPath, dstPath, err)
}

// FirstExtent has no APFS equivalent exposed via a stable syscall; any
// error here is treated by the caller as "comparison impossible", which
// conservatively assumes two files are already sharing storage rather than
// risk destructive linking on a filesystem this probe cannot interrogate.
func FirstExtent(path string) (uint64, error) {
	return 0, fmt.Errorf("first extent: not supported on darwin")
}
