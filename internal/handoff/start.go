// Package handoff hands a background task from one CI step to a later one.
//
// The launcher never waits for the task. The waiter never fails the step.
// The marker file in the scratch directory is the only thing they share.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/psantana5/freedisk/internal/logfile"
	"github.com/psantana5/freedisk/internal/logging"
	"github.com/psantana5/freedisk/internal/marker"
	"github.com/psantana5/freedisk/internal/observe"
	"github.com/psantana5/freedisk/internal/report"
)

var (
	// ErrScriptNotFound is returned when the cleanup script does not exist
	ErrScriptNotFound = errors.New("cleanup script not found")
	// ErrTaskInFlight is returned when a marker from an earlier start is still present
	ErrTaskInFlight = errors.New("background task already recorded")
	// ErrInterpreterNotFound is returned when the interpreter is not on PATH
	ErrInterpreterNotFound = errors.New("interpreter not found on PATH")
)

// StartOptions describe what to launch and where to record it
type StartOptions struct {
	Paths           marker.Paths
	Script          string
	Interpreter     string
	InterpreterArgs []string
	Logger          *logging.Logger
}

// Start spawns the cleanup script detached from the caller, with stdout and
// stderr both going to the log file, and records its PID in the marker.
// It returns as soon as the process exists.
//
// Every precondition is checked before any file is touched, so a failed
// Start leaves the scratch directory exactly as it found it.
func Start(ctx context.Context, opts StartOptions) (*report.Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger(logging.INFO, logging.FormatActions)
	}
	timing := observe.StartTiming()

	if _, err := os.Stat(opts.Script); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrScriptNotFound, opts.Script)
		}
		return nil, fmt.Errorf("failed to stat cleanup script %s: %w", opts.Script, err)
	}

	exists, err := marker.Exists(opts.Paths.PIDFile)
	if err != nil {
		return nil, fmt.Errorf("failed to check marker %s: %w", opts.Paths.PIDFile, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: pid file '%s' already exists", ErrTaskInFlight, opts.Paths.PIDFile)
	}

	interpreter, err := exec.LookPath(opts.Interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInterpreterNotFound, opts.Interpreter)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logFile, err := logfile.Create(opts.Paths.LogFile)
	if err != nil {
		return nil, err
	}
	// The child holds its own copy of the handle
	defer logFile.Close()

	args := append(append([]string{}, opts.InterpreterArgs...), opts.Script)

	// Not CommandContext: cancelling the launcher must not take the task down
	cmd := exec.Command(interpreter, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	log.Debug(fmt.Sprintf("spawning %s %v", interpreter, args))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", interpreter, err)
	}
	pid := cmd.Process.Pid

	if err := marker.Write(opts.Paths.PIDFile, pid); err != nil {
		// The task is running but nobody will wait for it
		log.WithField("pid", pid).Warn("cleanup started but its pid could not be recorded")
		cmd.Process.Release()
		return nil, err
	}

	if err := cmd.Process.Release(); err != nil {
		log.Debug(fmt.Sprintf("release pid %d: %v", pid, err))
	}

	result := report.NewResult(report.ModeStart, report.OutcomeLaunched, pid, timing)
	result.PIDFile = opts.Paths.PIDFile
	result.LogFile = opts.Paths.LogFile
	return result, nil
}
