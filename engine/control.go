// Package engine owns the outer dual-update / topology-controller loop
// (spec.md §4.6) plus the process-level concurrency model of spec.md §5: a
// single owning value holding all mutable state, with a small stdin-driven
// control channel setting atomic flags polled between outer iterations.
// Grounded on the "re-express global mutable state as one Engine value"
// design note (spec.md §9) and, for the goroutine-producer/atomic-flag
// shape, on how gofem's fem.FEM.Run loop is the single authority over
// Domain/Solver state for a run (no shared mutation from elsewhere).
package engine

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"
)

// Control holds the three cross-thread flags spec.md §5 names: forceQuit,
// forceQuitSave, and snapshot. They are the only state the outer loop
// observes that wasn't written by the outer loop itself.
type Control struct {
	ForceQuit     atomic.Bool
	ForceQuitSave atomic.Bool
	Snapshot      atomic.Bool
}

// Commands starts a goroutine reading newline-terminated text commands from
// r ("stop", "cancel", "snapshot") and setting the corresponding flags on c.
// It returns immediately; the goroutine exits when r returns EOF or an
// error, or is never read from again once the caller stops consuming it.
func (c *Control) Commands(r io.Reader) {
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			switch strings.TrimSpace(strings.ToLower(sc.Text())) {
			case "stop":
				c.ForceQuit.Store(true)
				c.ForceQuitSave.Store(true)
			case "cancel":
				c.ForceQuit.Store(true)
				c.ForceQuitSave.Store(false)
			case "snapshot":
				c.Snapshot.Store(true)
			}
		}
	}()
}
