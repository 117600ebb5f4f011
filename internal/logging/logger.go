package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	NOTICE
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case NOTICE:
		return "NOTICE"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Format selects how entries are rendered
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatActions Format = "actions" // workflow-command annotations
)

// Logger provides structured logging to a single writer
type Logger struct {
	level  Level
	format Format
	output io.Writer
	fields map[string]interface{}
}

// NewLogger creates a new logger writing to stdout
func NewLogger(level Level, format Format) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: os.Stdout,
		fields: make(map[string]interface{}),
	}
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Output returns the writer entries go to
func (l *Logger) Output() io.Writer {
	return l.output
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// log writes a log entry
func (l *Logger) log(level Level, message string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	mergedFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		mergedFields[k] = v
	}
	for k, v := range fields {
		mergedFields[k] = v
	}

	switch l.format {
	case FormatJSON:
		entry := LogEntry{
			Timestamp: time.Now().Format(time.RFC3339),
			Level:     level.String(),
			Message:   message,
			Fields:    mergedFields,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			log.Printf("Failed to marshal log entry: %v", err)
			return
		}
		fmt.Fprintln(l.output, string(data))
	case FormatActions:
		fmt.Fprintln(l.output, annotation(level, message, mergedFields))
	default:
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		fmt.Fprintf(l.output, "[%s] %s: %s", timestamp, level.String(), message)
		if len(mergedFields) > 0 {
			fmt.Fprintf(l.output, " %v", mergedFields)
		}
		fmt.Fprintln(l.output)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DEBUG, message, first(fields))
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(INFO, message, first(fields))
}

// Notice logs a notice message
func (l *Logger) Notice(message string, fields ...map[string]interface{}) {
	l.log(NOTICE, message, first(fields))
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WARN, message, first(fields))
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...map[string]interface{}) {
	l.log(ERROR, message, first(fields))
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	// Copy fields to avoid mutation
	newFields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		newFields[k] = v
	}
	newFields[key] = value
	return &Logger{
		level:  l.level,
		format: l.format,
		output: l.output,
		fields: newFields,
	}
}

// ParseLevel parses a log level string
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "notice":
		return NOTICE
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// ParseFormat parses a format string, defaulting to annotations
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatActions, "":
		return FormatActions, nil
	}
	return "", fmt.Errorf("unknown log format %q (want text, json or actions)", format)
}

// annotationProps are the fields promoted to workflow-command properties.
var annotationProps = []string{"file", "line", "col", "title"}

// annotation renders a workflow command such as "::error file=a.ps1::message".
// INFO has no command and is printed as a plain line.
func annotation(level Level, message string, fields map[string]interface{}) string {
	var props []string
	for _, key := range annotationProps {
		if v, ok := fields[key]; ok {
			props = append(props, key+"="+escapeProperty(fmt.Sprint(v)))
		}
	}

	var rest []string
	for k, v := range fields {
		if isProp(k) {
			continue
		}
		rest = append(rest, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(rest)
	if len(rest) > 0 {
		message = message + " " + strings.Join(rest, " ")
	}

	var command string
	switch level {
	case DEBUG:
		command = "debug"
	case NOTICE:
		command = "notice"
	case WARN:
		command = "warning"
	case ERROR:
		command = "error"
	default:
		return message
	}

	if len(props) == 0 {
		return "::" + command + "::" + escapeData(message)
	}
	return "::" + command + " " + strings.Join(props, ",") + "::" + escapeData(message)
}

func isProp(key string) bool {
	for _, p := range annotationProps {
		if p == key {
			return true
		}
	}
	return false
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
