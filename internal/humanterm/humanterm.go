// Package humanterm is the thin, out-of-scope collaborator surface for
// human-readable byte counts and terminal bold/reset decoration. Neither
// concern is part of the dedup engine; both are used only for the output
// lines written by cmd/dedup and the pipeline driver.
package humanterm

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Bytes formats a byte count the way the original tool reports savings,
// e.g. "1.2 MB" for 1200000.
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}

// Writer returns an ANSI-safe stdout writer: escape sequences are
// translated on Windows consoles and passed through unchanged everywhere
// else. It strips nothing; Bold itself adds no escapes off a terminal.
func Writer() io.Writer {
	return colorable.NewColorable(os.Stdout)
}

// IsTerminal reports whether stdout is attached to an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Bold wraps s in the bold SGR escape sequence used throughout the
// original tool's progress output ("\x1b[0;1m...\x1b[0m"), or returns it
// unadorned when stdout isn't a terminal.
func Bold(s string) string {
	if !IsTerminal() {
		return s
	}
	return fmt.Sprintf("\x1b[0;1m%s\x1b[0m", s)
}
