package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/freedisk/internal/handoff"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch the cleanup script in the background",
	Long: `Start launches the cleanup script detached from this step, sends its
stdout and stderr to free-disk-space.log and records its PID in
free-disk-space.pid, both in the scratch directory.

Fails with exit code 1 if the script or the interpreter is missing, or if a
PID file already exists.

Example:
  freedisk start
  RUNNER_TEMP=/tmp/ci freedisk start --log-format text`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fallbackLogger(cmd).Error(err.Error())
		return reportedError{err}
	}
	log := commandLogger(cmd, cfg)

	log.Info("Starting disk cleanup...")

	script, err := cfg.ScriptPath()
	if err != nil {
		log.Error(err.Error())
		return reportedError{err}
	}
	paths := cfg.Paths()

	result, err := handoff.Start(cmd.Context(), handoff.StartOptions{
		Paths:           paths,
		Script:          script,
		Interpreter:     cfg.Interpreter,
		InterpreterArgs: cfg.InterpreterArgs,
		Logger:          log,
	})
	if err != nil {
		switch {
		case errors.Is(err, handoff.ErrScriptNotFound):
			log.WithField("file", script).Error(err.Error())
		case errors.Is(err, handoff.ErrTaskInFlight):
			log.WithField("file", paths.PIDFile).Error(err.Error())
		default:
			log.Error(err.Error() + "; cannot start disk cleanup.")
		}
		return reportedError{err}
	}

	log.WithField("file", script).Notice(fmt.Sprintf(
		"Started free-disk-space cleanup in background. pid=%d; log_file: %s; pid_file: %s",
		result.PID, result.LogFile, result.PIDFile))

	result.LogSummary(log)
	writeMetrics(cfg, log, result)
	return nil
}
