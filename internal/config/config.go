package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/freedisk/internal/logging"
	"github.com/psantana5/freedisk/internal/marker"
)

// Keys understood in the config file, as FREEDISK_<KEY> env vars and as flags
const (
	KeyTempDir         = "temp_dir"
	KeyScript          = "script"
	KeyInterpreter     = "interpreter"
	KeyInterpreterArgs = "interpreter_args"
	KeyPollInterval    = "poll_interval"
	KeyLogFormat       = "log_format"
	KeyLogLevel        = "log_level"
	KeyMetricsDir      = "metrics_dir"
)

const (
	EnvPrefix     = "FREEDISK"
	RunnerTempEnv = "RUNNER_TEMP"
	FileName      = "freedisk"
)

// Defaults
const (
	DefaultScript       = "free-disk-space.ps1"
	DefaultInterpreter  = "pwsh"
	DefaultPollInterval = "3s"
)

// DefaultInterpreterArgs suppress the banner, profiles and prompts. The
// script path is appended after them.
var DefaultInterpreterArgs = []string{"-NoLogo", "-NoProfile", "-NonInteractive", "-File"}

// Config is the resolved configuration for one invocation
type Config struct {
	TempDir         string
	Script          string
	Interpreter     string
	InterpreterArgs []string
	PollInterval    time.Duration
	LogFormat       logging.Format
	LogLevel        logging.Level
	MetricsDir      string
}

// File mirrors Config with durations and levels as strings. It is the
// on-disk shape and what `config show` prints.
type File struct {
	TempDir         string   `yaml:"temp_dir"`
	Script          string   `yaml:"script"`
	Interpreter     string   `yaml:"interpreter"`
	InterpreterArgs []string `yaml:"interpreter_args"`
	PollInterval    string   `yaml:"poll_interval"`
	LogFormat       string   `yaml:"log_format"`
	LogLevel        string   `yaml:"log_level"`
	MetricsDir      string   `yaml:"metrics_dir,omitempty"`
}

// SetDefaults registers defaults and env bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyScript, DefaultScript)
	v.SetDefault(KeyInterpreter, DefaultInterpreter)
	v.SetDefault(KeyInterpreterArgs, DefaultInterpreterArgs)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyLogFormat, string(logging.FormatActions))
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv checks FREEDISK_TEMP_DIR first; RUNNER_TEMP is the fallback
	v.BindEnv(KeyTempDir, RunnerTempEnv)
}

// ReadFile reads an explicit config file, or searches for freedisk.yaml in
// the scratch dir and the working dir. A missing searched file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if dir := v.GetString(KeyTempDir); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load resolves and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	interval, err := time.ParseDuration(v.GetString(KeyPollInterval))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyPollInterval, err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive, got %s", KeyPollInterval, interval)
	}

	format, err := logging.ParseFormat(v.GetString(KeyLogFormat))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TempDir:         v.GetString(KeyTempDir),
		Script:          v.GetString(KeyScript),
		Interpreter:     v.GetString(KeyInterpreter),
		InterpreterArgs: v.GetStringSlice(KeyInterpreterArgs),
		PollInterval:    interval,
		LogFormat:       format,
		LogLevel:        logging.ParseLevel(v.GetString(KeyLogLevel)),
		MetricsDir:      v.GetString(KeyMetricsDir),
	}

	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.Script == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyScript)
	}
	if cfg.Interpreter == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyInterpreter)
	}

	return cfg, nil
}

// Paths returns the marker and log locations in the scratch dir
func (c *Config) Paths() marker.Paths {
	return marker.NewPaths(c.TempDir)
}

// ScriptPath resolves the cleanup script. Relative paths are taken from the
// directory holding the running executable, so the script ships next to it.
func (c *Config) ScriptPath() (string, error) {
	if filepath.IsAbs(c.Script) {
		return c.Script, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), c.Script), nil
}

// Logger builds the logger the configuration asks for
func (c *Config) Logger() *logging.Logger {
	return logging.NewLogger(c.LogLevel, c.LogFormat)
}

// ToFile converts back to the on-disk shape
func (c *Config) ToFile() File {
	return File{
		TempDir:         c.TempDir,
		Script:          c.Script,
		Interpreter:     c.Interpreter,
		InterpreterArgs: c.InterpreterArgs,
		PollInterval:    c.PollInterval.String(),
		LogFormat:       string(c.LogFormat),
		LogLevel:        strings.ToLower(c.LogLevel.String()),
		MetricsDir:      c.MetricsDir,
	}
}

// YAML renders the configuration as a config file
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.ToFile())
}

// ParseFile decodes a config file without touching viper
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

// ExampleConfig is printed by `freedisk config example`
const ExampleConfig = `# freedisk configuration
# Every key can also be set as FREEDISK_<KEY>; temp_dir also reads RUNNER_TEMP.

# Scratch directory shared by the start and wait steps.
# Defaults to $RUNNER_TEMP, then the OS temp dir.
temp_dir: ""

# Cleanup script. Relative paths resolve next to the freedisk executable.
script: free-disk-space.ps1

# Interpreter and the flags that keep it quiet and non-interactive.
# The script path is appended after interpreter_args.
interpreter: pwsh
interpreter_args:
  - -NoLogo
  - -NoProfile
  - -NonInteractive
  - -File

# Pause between two liveness checks while waiting. There is no overall timeout.
poll_interval: 3s

# actions (workflow annotations), text or json
log_format: actions
log_level: info

# Write freedisk_<mode>.prom here for a node_exporter textfile collector.
# metrics_dir: /var/lib/node_exporter/textfile
`
