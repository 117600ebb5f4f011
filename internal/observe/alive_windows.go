//go:build windows

package observe

import "golang.org/x/sys/windows"

// stillActive is the exit code GetExitCodeProcess reports for a live process
const stillActive = 259

// queryable opens pid with the least access GetExitCodeProcess needs.
// Failure to open covers both "no such process" and "access denied".
func queryable(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}
