package report

import (
	"fmt"
	"time"

	"github.com/psantana5/freedisk/internal/logging"
	"github.com/psantana5/freedisk/internal/observe"
)

// Mode names which half of the handoff produced a result
type Mode string

const (
	ModeStart Mode = "start"
	ModeWait  Mode = "wait"
)

// Outcome is the single word ops grep for
type Outcome string

const (
	OutcomeLaunched      Outcome = "launched"
	OutcomeNothingToWait Outcome = "nothing_to_wait"
	OutcomeStaleMarker   Outcome = "stale_marker"
	OutcomeCompleted     Outcome = "completed"
	OutcomeInterrupted   Outcome = "interrupted"
)

// Result is what one invocation did. Set once at completion.
type Result struct {
	Mode    Mode    `json:"mode"`
	Outcome Outcome `json:"outcome"`
	PID     int     `json:"pid,omitempty"`

	PIDFile string `json:"pid_file"`
	LogFile string `json:"log_file"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`

	// Waiter only
	Checks   int   `json:"checks,omitempty"`
	LogBytes int64 `json:"log_bytes,omitempty"`
}

// NewResult freezes timing into a result
func NewResult(mode Mode, outcome Outcome, pid int, timing *observe.Timing) *Result {
	elapsed := timing.Stop()
	return &Result{
		Mode:      mode,
		Outcome:   outcome,
		PID:       pid,
		StartTime: timing.Start,
		EndTime:   timing.End,
		Duration:  elapsed,
	}
}

// LogSummary emits a one-line, human-readable summary at debug level
func (r *Result) LogSummary(l *logging.Logger) {
	l.Debug(fmt.Sprintf("TASK %s | outcome=%s | pid=%d | runtime=%.1fs | checks=%d | log_bytes=%d",
		r.Mode,
		r.Outcome,
		r.PID,
		r.Duration.Seconds(),
		r.Checks,
		r.LogBytes,
	))
}
