package observe

// A watcher only looks. It never signals, restarts or kills what it watches.

import (
	"context"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// DefaultInterval is the pause between two liveness checks
const DefaultInterval = 3 * time.Second

// Prober answers whether pid currently names an active process.
// Implementations must report false whenever they cannot tell.
type Prober interface {
	Alive(ctx context.Context, pid int) bool
}

// ProcessProber queries the OS process table
type ProcessProber struct{}

// Alive reports whether pid is running. "No such process", "access denied"
// and a zombie awaiting its parent are all treated as not running.
func (ProcessProber) Alive(ctx context.Context, pid int) bool {
	if pid <= 0 || !queryable(pid) {
		return false
	}

	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return false
	}
	// Status is unsupported on some platforms; the platform query already passed
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		return true
	}
	return !slices.Contains(status, process.Zombie)
}

// Watcher observes PID lifecycle. Nothing else.
type Watcher struct {
	pid      int
	interval time.Duration
	prober   Prober
	timing   *Timing
	checks   int
}

// New creates a watcher for a PID. A nil prober uses the OS process table,
// a non-positive interval uses DefaultInterval.
func New(pid int, interval time.Duration, prober Prober) *Watcher {
	if prober == nil {
		prober = ProcessProber{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		pid:      pid,
		interval: interval,
		prober:   prober,
		timing:   StartTiming(),
	}
}

// Exists checks if PID still exists
func (w *Watcher) Exists(ctx context.Context) bool {
	w.checks++
	return w.prober.Alive(ctx, w.pid)
}

// Wait blocks until the PID is no longer running. The first check happens
// immediately, so an already finished process costs exactly one check.
// There is no upper bound; only ctx ends the wait early.
func (w *Watcher) Wait(ctx context.Context) error {
	defer w.timing.Stop()

	for w.Exists(ctx) {
		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Checks returns how many liveness checks have run
func (w *Watcher) Checks() int {
	return w.checks
}

// Duration returns how long we've been observing
func (w *Watcher) Duration() time.Duration {
	return w.timing.Elapsed()
}

// Timing exposes start/end of the observation
func (w *Watcher) Timing() *Timing {
	return w.timing
}
