//go:build !windows

package observe

import (
	"os"
	"syscall"
)

// queryable sends signal 0. EPERM counts as not running.
func queryable(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
