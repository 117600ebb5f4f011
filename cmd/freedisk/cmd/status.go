package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"

	"github.com/psantana5/freedisk/internal/logfile"
	"github.com/psantana5/freedisk/internal/marker"
	"github.com/psantana5/freedisk/internal/observe"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a background cleanup is recorded and running",
	Long: `Status inspects the scratch directory without changing anything: the PID
file, whether that PID is still running, and the size of the cleanup log.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type taskStatus struct {
	TempDir   string `json:"temp_dir"`
	PIDFile   string `json:"pid_file"`
	Recorded  bool   `json:"recorded"`
	PID       int    `json:"pid,omitempty"`
	Malformed bool   `json:"malformed,omitempty"`
	Running   bool   `json:"running"`
	Process   string `json:"process,omitempty"`
	LogFile   string `json:"log_file"`
	LogBytes  int64  `json:"log_bytes"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := inspect(cmd, cfg.Paths())
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	return printStatusTable(cmd.OutOrStdout(), st)
}

func inspect(cmd *cobra.Command, paths marker.Paths) (*taskStatus, error) {
	st := &taskStatus{
		TempDir:  paths.Dir,
		PIDFile:  paths.PIDFile,
		LogFile:  paths.LogFile,
		LogBytes: logfile.Size(paths.LogFile),
	}

	recorded, err := marker.Exists(paths.PIDFile)
	if err != nil {
		return nil, err
	}
	st.Recorded = recorded
	if !recorded {
		return st, nil
	}

	pid, err := marker.Read(paths.PIDFile)
	if errors.Is(err, marker.ErrMalformed) {
		st.Malformed = true
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	st.PID = pid

	ctx := cmd.Context()
	st.Running = observe.ProcessProber{}.Alive(ctx, pid)
	if st.Running {
		if p, err := process.NewProcessWithContext(ctx, int32(pid)); err == nil {
			st.Process, _ = p.NameWithContext(ctx)
		}
	}
	return st, nil
}

func printStatusTable(w io.Writer, st *taskStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")

	table.Append("Temp Dir", st.TempDir)
	table.Append("PID File", st.PIDFile)
	switch {
	case !st.Recorded:
		table.Append("Task", "none recorded")
	case st.Malformed:
		table.Append("Task", "malformed pid file (next wait removes it)")
	default:
		state := "finished"
		if st.Running {
			state = "running"
		}
		table.Append("PID", fmt.Sprintf("%d", st.PID))
		table.Append("State", state)
		if st.Process != "" {
			table.Append("Process", st.Process)
		}
	}
	table.Append("Log File", st.LogFile)
	if st.LogBytes < 0 {
		table.Append("Log Size", "missing")
	} else {
		table.Append("Log Size", fmt.Sprintf("%d bytes", st.LogBytes))
	}

	return table.Render()
}
