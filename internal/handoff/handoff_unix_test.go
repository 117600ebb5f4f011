//go:build unix

package handoff

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/psantana5/freedisk/internal/marker"
	"github.com/psantana5/freedisk/internal/report"
)

func TestStartThenWait(t *testing.T) {
	dir := t.TempDir()
	paths := marker.NewPaths(dir)
	script := writeScript(t, dir, "echo 'Removing tool cache'\necho 'disk full warning' >&2\nsleep 0.2\necho 'Done'\n")

	var logs bytes.Buffer
	started, err := Start(context.Background(), StartOptions{
		Paths:       paths,
		Script:      script,
		Interpreter: "sh",
		Logger:      testLogger(&logs),
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.Outcome != report.OutcomeLaunched || started.PID <= 0 {
		t.Fatalf("Unexpected start result: %+v", started)
	}

	pid, err := marker.Read(paths.PIDFile)
	if err != nil {
		t.Fatalf("Marker unreadable after Start: %v", err)
	}
	if pid != started.PID {
		t.Errorf("Marker pid = %d, result pid = %d", pid, started.PID)
	}
	if _, err := os.Stat(paths.LogFile); err != nil {
		t.Errorf("Log file missing after Start: %v", err)
	}

	// A second launch while the first is recorded must be refused
	if _, err := Start(context.Background(), StartOptions{
		Paths:       paths,
		Script:      script,
		Interpreter: "sh",
		Logger:      testLogger(&logs),
	}); err == nil {
		t.Error("Second Start() succeeded while a task was recorded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	waited, err := Wait(ctx, WaitOptions{
		Paths:    paths,
		Interval: 20 * time.Millisecond,
		Output:   &out,
		Logger:   testLogger(&logs),
	})
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if waited.Outcome != report.OutcomeCompleted || waited.PID != pid {
		t.Errorf("Unexpected wait result: %+v", waited)
	}

	got := out.String()
	for _, want := range []string{"free-disk-space logs:", "Removing tool cache", "disk full warning", "Done"} {
		if !strings.Contains(got, want) {
			t.Errorf("Output missing %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(paths.PIDFile); !os.IsNotExist(err) {
		t.Errorf("Marker still present after Wait: %v", err)
	}
}

func TestStartPassesInterpreterArgs(t *testing.T) {
	dir := t.TempDir()
	paths := marker.NewPaths(dir)
	script := writeScript(t, dir, "echo \"flags: $-\"\n")

	var logs bytes.Buffer
	if _, err := Start(context.Background(), StartOptions{
		Paths:           paths,
		Script:          script,
		Interpreter:     "sh",
		InterpreterArgs: []string{"-u"},
		Logger:          testLogger(&logs),
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := Wait(ctx, WaitOptions{Paths: paths, Interval: 20 * time.Millisecond, Output: &bytes.Buffer{}, Logger: testLogger(&logs)}); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	data, err := os.ReadFile(paths.LogFile)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "u") {
		t.Errorf("Interpreter flag not applied, log = %q", data)
	}
}
