package logfile

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Create truncates (or creates) the log at path for the child to write into.
// The returned file is handed to the child as both stdout and stderr.
func Create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Dump copies the whole log at path to w followed by a newline.
// A leading BOM selects UTF-8 or UTF-16; without one the content is read as
// UTF-8. Undecodable bytes become U+FFFD instead of failing the read.
// It returns the number of decoded bytes written, excluding the newline.
func Dump(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// BOMOverride passes bytes after a UTF-8 BOM through untouched, so the
	// result is decoded once more to replace invalid sequences.
	dec := transform.Chain(unicode.BOMOverride(unicode.UTF8.NewDecoder()), unicode.UTF8.NewDecoder())
	n, err := io.Copy(w, transform.NewReader(f, dec))
	if err != nil {
		return n, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Size returns the log size in bytes, or -1 if it does not exist
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
