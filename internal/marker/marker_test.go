package marker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/runner/temp")
	if p.PIDFile != filepath.Join("/runner/temp", "free-disk-space.pid") {
		t.Errorf("Unexpected PID file path: %s", p.PIDFile)
	}
	if p.LogFile != filepath.Join("/runner/temp", "free-disk-space.log") {
		t.Errorf("Unexpected log file path: %s", p.LogFile)
	}
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)

	if err := Write(path, 4242); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read marker: %v", err)
	}
	if string(data) != "4242" {
		t.Errorf("Marker content = %q, want %q", data, "4242")
	}

	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if pid != 4242 {
		t.Errorf("Read() = %d, want 4242", pid)
	}
}

func TestWriteRefusesExistingMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)
	if err := os.WriteFile(path, []byte("1"), 0644); err != nil {
		t.Fatalf("Failed to seed marker: %v", err)
	}

	err := Write(path, 99)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("Write() error = %v, want ErrExists", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "1" {
		t.Errorf("Existing marker was modified: %q", data)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		content  string
		expected int
		wantErr  bool
		desc     string
	}{
		{"123", 123, false, "bare pid"},
		{"  77 \r\n", 77, false, "surrounding whitespace"},
		{"512\nstarted by launcher\n", 512, false, "only first line parsed"},
		{"", 0, true, "empty file"},
		{"   \n", 0, true, "whitespace only"},
		{"abc", 0, true, "non-numeric"},
		{"12abc", 0, true, "trailing garbage"},
		{"0", 0, true, "zero pid"},
		{"-1", 0, true, "negative pid"},
		{"99999999999999999999999", 0, true, "overflow"},
		{"notapid\n123", 0, true, "numeric second line ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			pid, err := parse([]byte(tt.content))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("parse(%q) error = %v, want ErrMalformed", tt.content, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse(%q) unexpected error: %v", tt.content, err)
			}
			if pid != tt.expected {
				t.Errorf("parse(%q) = %d, expected %d", tt.content, pid, tt.expected)
			}
		})
	}
}

func TestExistsAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)

	ok, err := Exists(path)
	if err != nil || ok {
		t.Fatalf("Exists() on missing marker = %v, %v", ok, err)
	}

	// Removing an absent marker is not an error
	if err := Remove(path); err != nil {
		t.Fatalf("Remove() on missing marker error = %v", err)
	}

	if err := Write(path, 10); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	ok, err = Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists() after Write = %v, %v", ok, err)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Marker still present after Remove: %v", err)
	}
}
