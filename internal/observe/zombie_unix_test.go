//go:build linux

package observe

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"
)

func TestProcessProberTreatsZombieAsGone(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start child: %v", err)
	}
	// Reap at the end so the zombie does not outlive the test
	defer cmd.Wait()

	w := New(cmd.Process.Pid, 10*time.Millisecond, ProcessProber{})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Without zombie detection the unreaped child would look alive forever
	if err := w.Wait(ctx); err != nil {
		t.Fatalf("Wait() on an exited, unreaped child error = %v", err)
	}
}
