package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/psantana5/freedisk/internal/config"
	"github.com/psantana5/freedisk/internal/logging"
	"github.com/psantana5/freedisk/internal/report"
)

var (
	cfgFile      string
	tempDir      string
	logFormat    string
	logLevel     string
	metricsDir   string
	outputFormat string

	// v is rebuilt on every execution so repeated runs never share state
	v *viper.Viper
)

// errReported marks errors already surfaced as an annotation
var errReported = errors.New("reported")

type reportedError struct{ err error }

func (e reportedError) Error() string        { return e.err.Error() }
func (e reportedError) Is(target error) bool { return target == errReported }
func (e reportedError) Unwrap() error        { return e.err }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freedisk",
	Short: "Run disk cleanup in the background of a CI job",
	Long: `freedisk overlaps disk cleanup with the rest of a CI job.

"freedisk start" launches the cleanup script detached and records its PID in
$RUNNER_TEMP/free-disk-space.pid. A later "freedisk wait" blocks until that
process is gone and prints $RUNNER_TEMP/free-disk-space.log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	return execute(os.Args[1:], os.Stdout)
}

// ExecuteAs runs a single subcommand as if it were the whole program.
// Used by the standalone free-disk-space-start/-wait binaries.
func ExecuteAs(name string, args []string) int {
	return execute(append([]string{name}, args...), os.Stdout)
}

func execute(args []string, out io.Writer) int {
	resetFlags(rootCmd.PersistentFlags())
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is freedisk.yaml in $RUNNER_TEMP or the working dir)")
	rootCmd.PersistentFlags().StringVar(&tempDir, "temp-dir", "", "scratch directory shared by start and wait (default $RUNNER_TEMP)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: actions, text or json (default actions)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, notice, warn, error (default info)")
	rootCmd.PersistentFlags().StringVar(&metricsDir, "metrics-dir", "", "write a Prometheus textfile per invocation to this directory")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format for status: table or json")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	v = viper.New()
	config.SetDefaults(v)
	bindFlags(v, rootCmd.PersistentFlags())
}

// bindFlags maps --some-flag onto the some_flag config key
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "config", "output":
			return
		}
		v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

// resetFlags restores flag defaults left over from a previous execution
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// loadConfig resolves the configuration for the running command
func loadConfig() (*config.Config, error) {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// fallbackLogger is used when the configuration itself could not be loaded
func fallbackLogger(cmd *cobra.Command) *logging.Logger {
	l := logging.NewLogger(logging.INFO, logging.FormatActions)
	l.SetOutput(cmd.OutOrStdout())
	return l
}

// commandLogger builds the configured logger bound to the command's output
func commandLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	l := cfg.Logger()
	l.SetOutput(cmd.OutOrStdout())
	return l
}

// writeMetrics exports r when a metrics dir is configured. Best effort.
func writeMetrics(cfg *config.Config, log *logging.Logger, r *report.Result) {
	if cfg.MetricsDir == "" || r == nil {
		return
	}
	if err := report.WriteTextfile(cfg.MetricsDir, r); err != nil {
		log.Warn(fmt.Sprintf("Failed to write metrics: %v", err))
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
