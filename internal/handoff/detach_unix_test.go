//go:build linux || darwin

package handoff

import (
	"bytes"
	"context"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/psantana5/freedisk/internal/marker"
)

func TestStartDetachesIntoOwnSession(t *testing.T) {
	dir := t.TempDir()
	paths := marker.NewPaths(dir)
	script := writeScript(t, dir, "sleep 1\n")

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer Wait(ctx, WaitOptions{Paths: paths, Interval: 20 * time.Millisecond, Output: &bytes.Buffer{}, Logger: testLogger(&logs)})

	childSid, err := unix.Getsid(started.PID)
	if err != nil {
		t.Fatalf("Getsid(%d) error = %v", started.PID, err)
	}
	ownSid, err := unix.Getsid(0)
	if err != nil {
		t.Fatalf("Getsid(0) error = %v", err)
	}

	if childSid != started.PID {
		t.Errorf("Child session = %d, want it to lead its own session %d", childSid, started.PID)
	}
	if childSid == ownSid {
		t.Errorf("Child shares the launcher's session %d", ownSid)
	}
}
