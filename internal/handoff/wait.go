package handoff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/psantana5/freedisk/internal/logfile"
	"github.com/psantana5/freedisk/internal/logging"
	"github.com/psantana5/freedisk/internal/marker"
	"github.com/psantana5/freedisk/internal/observe"
	"github.com/psantana5/freedisk/internal/report"
)

// WaitOptions describe which marker to wait on and where its log goes
type WaitOptions struct {
	Paths    marker.Paths
	Interval time.Duration
	// Prober defaults to the OS process table
	Prober observe.Prober
	// Output receives the log content; defaults to the logger's writer
	Output io.Writer
	Logger *logging.Logger
}

// Wait blocks until the task recorded in the marker is no longer running,
// removes the marker and prints the task's log.
//
// Nothing here is fatal. A missing marker returns at once, an unreadable
// marker is removed and forgotten, and log read failures become warnings.
// The only error returned is ctx's, when ctx ends the wait early; the marker
// is then left in place for a later wait.
func Wait(ctx context.Context, opts WaitOptions) (*report.Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger(logging.INFO, logging.FormatActions)
	}
	out := opts.Output
	if out == nil {
		out = log.Output()
	}
	timing := observe.StartTiming()
	log.Info("Waiting for disk cleanup to finish...")

	finish := func(outcome report.Outcome, pid int) *report.Result {
		r := report.NewResult(report.ModeWait, outcome, pid, timing)
		r.PIDFile = opts.Paths.PIDFile
		r.LogFile = opts.Paths.LogFile
		return r
	}

	exists, err := marker.Exists(opts.Paths.PIDFile)
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to check pid file '%s': %v", opts.Paths.PIDFile, err))
	}
	if !exists {
		log.Notice("No background free-disk-space process to wait for.")
		return finish(report.OutcomeNothingToWait, 0), nil
	}

	pid, err := marker.Read(opts.Paths.PIDFile)
	if err != nil {
		// Stale or corrupt marker: clean up quietly, there is nothing to wait on
		log.Debug(fmt.Sprintf("discarding pid file '%s': %v", opts.Paths.PIDFile, err))
		removeMarker(log, opts.Paths.PIDFile)
		return finish(report.OutcomeStaleMarker, 0), nil
	}

	w := observe.New(pid, opts.Interval, opts.Prober)
	if err := w.Wait(ctx); err != nil {
		r := finish(report.OutcomeInterrupted, pid)
		r.Checks = w.Checks()
		return r, err
	}

	removeMarker(log, opts.Paths.PIDFile)

	r := finish(report.OutcomeCompleted, pid)
	r.Checks = w.Checks()
	r.LogBytes = printLog(log, out, opts.Paths.LogFile)
	return r, nil
}

func removeMarker(log *logging.Logger, path string) {
	if err := marker.Remove(path); err != nil {
		log.Warn(fmt.Sprintf("Failed to remove pid file '%s': %v", path, err))
	}
}

// printLog writes the full log to out. It returns the decoded size, or 0
// when there is no log.
func printLog(log *logging.Logger, out io.Writer, path string) int64 {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return 0
	}

	fmt.Fprintln(out, "free-disk-space logs:")
	n, err := logfile.Dump(out, path)
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to read log file '%s': %v", path, err))
	}
	return n
}
