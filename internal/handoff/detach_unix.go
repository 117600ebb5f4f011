//go:build !windows

package handoff

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so it survives the launcher,
// its process group and its controlling terminal.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
