// Package ulog is the engine's logging surface: plain progress lines for
// normal status messages, green lines for success, red lines for warnings
// (all through gosl's io printers), and a panic helper for unrecoverable
// errors. Grounded on gofem's use of
// github.com/cpmech/gosl/chk (chk.Panic, chk.Err) and
// github.com/cpmech/gosl/io (io.Pf, io.PfGreen, io.PfRed) throughout
// fem.FEM.Run.
package ulog

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Logger wraps gosl's io/chk helpers with a Mute flag, mirroring the
// Optimizer/Engine's "mute" construction parameter (spec.md §4.5) that
// silences progress output during headless/batch runs without touching call
// sites.
type Logger struct {
	Mute bool
}

// New returns a Logger, muted per the given flag.
func New(mute bool) *Logger { return &Logger{Mute: mute} }

// Info prints a plain progress line, following gofem's "> message" format.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Mute {
		return
	}
	io.Pf("> "+format+"\n", args...)
}

// Success prints a green "> message" line, used at converged/terminal states.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.Mute {
		return
	}
	io.PfGreen("> "+format+"\n", args...)
}

// Warn prints a red "> message" line without aborting.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Mute {
		return
	}
	io.PfRed("> "+format+"\n", args...)
}

// Fatal reports an unrecoverable error and terminates the process, mirroring
// chk.Panic's role for fem.FEM's fatal paths (bad simulation file, missing
// solver type).
func Fatal(format string, args ...interface{}) {
	chk.Panic(format, args...)
}

// Err wraps an error with additional context, mirroring chk.Err's role for
// recoverable-but-reported errors (e.g. a single malformed input file among
// a batch).
func Err(format string, args ...interface{}) error {
	return chk.Err(format, args...)
}
