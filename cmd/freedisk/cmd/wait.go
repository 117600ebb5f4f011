package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/freedisk/internal/handoff"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the background cleanup and print its log",
	Long: `Wait reads free-disk-space.pid, polls until that process is gone, removes
the PID file and prints free-disk-space.log.

Wait always exits 0: the cleanup outcome is reported through its log, it
never fails the step. There is no timeout.

Example:
  freedisk wait
  FREEDISK_POLL_INTERVAL=10s freedisk wait`,
	Args: cobra.ArbitraryArgs,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fallbackLogger(cmd).Warn(fmt.Sprintf("Not waiting for disk cleanup: %v", err))
		return nil
	}
	log := commandLogger(cmd, cfg)
	if len(args) > 0 {
		log.Warn(fmt.Sprintf("Ignoring unexpected arguments: %v", args))
	}

	result, err := handoff.Wait(cmd.Context(), handoff.WaitOptions{
		Paths:    cfg.Paths(),
		Interval: cfg.PollInterval,
		Output:   cmd.OutOrStdout(),
		Logger:   log,
	})
	if err != nil {
		log.Warn(fmt.Sprintf("Stopped waiting for disk cleanup: %v", err))
	}

	result.LogSummary(log)
	writeMetrics(cfg, log, result)
	return nil
}
