// Package dlog is a small leveled-logging wrapper, in the spirit of the
// fs.Debugf/fs.Infof/fs.Errorf call sites the teacher scatters through its
// backends — except here there is exactly one logger, not a per-remote one.
package dlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetOutput(os.Stderr)
	return l
}

// SetQuiet raises the logger's threshold so that only warnings and errors
// are emitted, matching the --quiet flag's effect on progress output.
func SetQuiet(quiet bool) {
	if quiet {
		log.SetLevel(logrus.WarnLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}
}

// Debugf logs a low-level diagnostic: cache hits, already-linked
// short-circuits. Emitted after SetQuiet(false), suppressed after
// SetQuiet(true).
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Errorf logs a fatal or near-fatal condition at error level; it is
// emitted whether or not quiet is set.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// Warnf logs a recoverable condition at warning level; it is emitted
// whether or not quiet is set.
func Warnf(format string, args ...any) {
	log.Warnf(format, args...)
}
