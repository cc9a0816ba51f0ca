//go:build !linux && !darwin

package platform

import (
	"fmt"
	"os"
)

// Clone is unavailable on this platform; reflink mode's preflight probe
// (internal/scan.Checks) will report "does not support reflinks" and the
// root is skipped, per spec.md §4.2.
func Clone(src, dst *os.File) (bool, error) {
	return false, nil
}

// FirstExtent is unavailable on this platform; see clone_darwin.go's
// FirstExtent doc comment for the conservative fallback this produces.
func FirstExtent(path string) (uint64, error) {
	return 0, fmt.Errorf("first extent: not supported on this platform")
}
