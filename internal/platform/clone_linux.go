//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Clone performs a filesystem-level copy-on-write clone of all of src's
// content into dst (already opened for write, length 0), via the FICLONE
// ioctl. It returns false on any kernel refusal (unsupported filesystem,
// cross-device, ...) rather than an error, per spec.md §4.1 — the caller
// falls back to treating this as "reflinks unsupported", not a fatal error.
func Clone(src, dst *os.File) (bool, error) {
	err := unix.IoctlFileClone(int(dst.Fd()), int(src.Fd()))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.EXDEV) || errors.Is(err, unix.EINVAL) {
		return false, nil
	}
	return false, fmt.Errorf("clone: ioctl FICLONE: %w", err)
}

// fiemap mirrors struct fiemap from <linux/fiemap.h>, padded to the
// kernel's layout: 2 u64 fields, 4 u32 fields, and the fm_extents flexible
// array, sized here for a single extent — FirstExtent sets fm_extent_count
// to 1, so the kernel fills in fm_mapped_extents and at most one extent.
type fiemapExtent struct {
	Logical    uint64
	Physical   uint64
	Length     uint64
	Reserved64 [2]uint64
	Flags      uint32
	Reserved32 [3]uint32
}

type fiemap struct {
	Start          uint64
	Length         uint64
	Flags          uint32
	MappedExtents  uint32
	ExtentCount    uint32
	Reserved       uint32
	Extents        [1]fiemapExtent
}

const (
	fsIocFiemap  = 0xC020660B // _IOWR('f', 11, struct fiemap), sized for one extent
	fiemapFlagSync = 0x00000001
)

// FirstExtent enumerates the physical extents backing path and returns the
// first extent's physical byte offset, per spec.md §4.1. Any error —
// including "no extents" and "filesystem doesn't support FIEMAP" — is
// returned to the caller, which per spec.md §4.4 treats it as "comparison
// impossible" and conservatively assumes the files are already shared.
func FirstExtent(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("first extent: open %q: %w", path, err)
	}
	defer f.Close()

	req := fiemap{
		Start:       0,
		Length:      ^uint64(0),
		Flags:       fiemapFlagSync,
		ExtentCount: 1,
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(fsIocFiemap), uintptr(unsafe.Pointer(&req)))
	if errno != 0 {
		return 0, fmt.Errorf("first extent: ioctl FIEMAP %q: %w", path, errno)
	}
	if req.MappedExtents == 0 {
		return 0, fmt.Errorf("first extent: %q has no extents", path)
	}
	return req.Extents[0].Physical, nil
}
