package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestActionsAnnotations(t *testing.T) {
	tests := []struct {
		desc     string
		emit     func(l *Logger)
		expected string
	}{
		{
			"error with file property",
			func(l *Logger) {
				l.WithField("file", `C:\ci\free-disk-space.ps1`).Error("Cleanup script not found")
			},
			`::error file=C%3A\ci\free-disk-space.ps1::Cleanup script not found`,
		},
		{
			"notice with extra fields",
			func(l *Logger) { l.Notice("Started cleanup", map[string]interface{}{"pid": 42}) },
			"::notice::Started cleanup pid=42",
		},
		{
			"warning escapes newlines and percent",
			func(l *Logger) { l.Warn("100% broken\nsecond line") },
			"::warning::100%25 broken%0Asecond line",
		},
		{
			"info is a plain line",
			func(l *Logger) { l.Info("Waiting for disk cleanup to finish...") },
			"Waiting for disk cleanup to finish...",
		},
		{
			"property commas are escaped",
			func(l *Logger) { l.WithField("title", "a,b").Error("x") },
			"::error title=a%2Cb::x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(DEBUG, FormatActions)
			l.SetOutput(&buf)
			tt.emit(l)
			got := strings.TrimRight(buf.String(), "\n")
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WARN, FormatText)
	l.SetOutput(&buf)

	l.Debug("debug")
	l.Info("info")
	l.Notice("notice")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output below WARN, got %q", buf.String())
	}

	l.Warn("warn")
	l.Error("error")
	out := buf.String()
	if !strings.Contains(out, "WARN: warn") || !strings.Contains(out, "ERROR: error") {
		t.Errorf("Expected WARN and ERROR lines, got %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(INFO, FormatJSON)
	l.SetOutput(&buf)

	l.WithField("pid", 7).Info("launched")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode entry %q: %v", buf.String(), err)
	}
	if entry.Level != "INFO" || entry.Message != "launched" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Fields["pid"] != float64(7) {
		t.Errorf("Expected pid field 7, got %v", entry.Fields["pid"])
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(INFO, FormatActions)
	parent.SetOutput(&buf)

	_ = parent.WithField("file", "x")
	parent.Error("plain")

	if got := strings.TrimSpace(buf.String()); got != "::error::plain" {
		t.Errorf("Parent logger picked up child field: %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatActions, false},
		{"actions", FormatActions, false},
		{"JSON", FormatJSON, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("WARNING") != WARN {
		t.Error("Expected WARNING to parse as WARN")
	}
	if ParseLevel("bogus") != INFO {
		t.Error("Expected unknown level to default to INFO")
	}
}
