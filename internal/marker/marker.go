// Package marker owns the two files the launcher and waiter share: the PID
// marker, whose presence means a background task is in flight, and the log
// the task writes to.
package marker

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

const (
	PIDFileName = "free-disk-space.pid"
	LogFileName = "free-disk-space.log"
)

var (
	// ErrExists is returned by Write when a marker is already present.
	ErrExists = errors.New("marker already exists")
	// ErrMalformed is returned by Read when the first line is not a usable PID.
	ErrMalformed = errors.New("malformed marker")
)

// Paths locates the marker and log inside a scratch directory
type Paths struct {
	Dir     string
	PIDFile string
	LogFile string
}

// NewPaths returns the fixed layout for dir
func NewPaths(dir string) Paths {
	return Paths{
		Dir:     dir,
		PIDFile: filepath.Join(dir, PIDFileName),
		LogFile: filepath.Join(dir, LogFileName),
	}
}

// Exists reports whether a marker is present at path
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Write records pid at path. The file must not already exist.
func Write(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("failed to create marker %s: %w", path, err)
	}

	if _, err := f.WriteString(strconv.Itoa(pid)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write marker %s: %w", path, err)
	}
	return f.Close()
}

// Read returns the PID recorded on the first line of the marker.
// Anything that is not a positive decimal integer is ErrMalformed.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return parse(data)
}

func parse(data []byte) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrMalformed)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Scan()
	line := string(bytes.TrimSpace(sc.Bytes()))

	pid, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	// 0 and negative values address process groups on Unix
	if pid <= 0 {
		return 0, fmt.Errorf("%w: pid %d", ErrMalformed, pid)
	}
	return pid, nil
}

// Remove deletes the marker, tolerating its absence
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
