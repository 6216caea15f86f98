package functorapp

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerboseLogging toggles logging of every bank change notification.
// Call it before NewApp.
func SetVerboseLogging(b bool) { verbose.Store(b) }

// VerboseLogging reports the current setting.
func VerboseLogging() bool { return verbose.Load() }

// stdLogger writes through the standard logger. Verbose-only output is gated by
// the process-wide flag.
type stdLogger struct{ verboseOnly bool }

func (l stdLogger) Printf(format string, args ...any) {
	if l.verboseOnly && !verbose.Load() {
		return
	}
	log.Printf(format, args...)
}
