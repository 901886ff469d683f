package cli

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

// StatusTableFormatter formats status data as a bordered key-value table
type StatusTableFormatter struct {
	writer io.Writer
}

// NewStatusTableFormatter creates a new status table formatter
func NewStatusTableFormatter(writer io.Writer) *StatusTableFormatter {
	return &StatusTableFormatter{
		writer: writer,
	}
}

// Format formats the status data as a single key-value table. wsmgr's
// status snapshot is deliberately flat (tracked workspace/session counts,
// last scan time, multiplexer backend) — per-worktree and per-session
// detail lives in `wsmgr worktree list`/`wsmgr session list` instead.
func (f *StatusTableFormatter) Format(data interface{}) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("status data is nil")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("invalid data type for status formatter: expected struct, got %T", data)
	}

	return f.formatSystemStatusReflection(v)
}

// formatSystemStatusReflection formats the system overview using reflection
func (f *StatusTableFormatter) formatSystemStatusReflection(v reflect.Value) error {
	f.printSectionHeader("System Overview")

	maxKeyWidth := 25
	data := [][]string{
		{"Tracked Workspaces", fmt.Sprintf("%d", getFieldInt(v, "TrackedWorkspaces"))},
		{"Active Sessions", fmt.Sprintf("%d", getFieldInt(v, "ActiveSessions"))},
		{"Multiplexer Backend", getFieldString(v, "MuxBackend")},
		{"Last Scan", formatTimeAgo(getFieldTime(v, "LastScan"))},
	}

	return f.printKeyValueTable(data, maxKeyWidth)
}

// Helper functions for reflection access

func getFieldString(v reflect.Value, fieldName string) string {
	field := v.FieldByName(fieldName)
	if !field.IsValid() {
		return ""
	}
	return field.String()
}

func getFieldInt(v reflect.Value, fieldName string) int {
	field := v.FieldByName(fieldName)
	if !field.IsValid() {
		return 0
	}
	return int(field.Int())
}

func getFieldTime(v reflect.Value, fieldName string) time.Time {
	field := v.FieldByName(fieldName)
	if !field.IsValid() {
		return time.Time{}
	}
	if t, ok := field.Interface().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Helper printing functions

// printSectionHeader prints a section header with decorative styling
func (f *StatusTableFormatter) printSectionHeader(title string) {
	fmt.Fprintf(f.writer, "\n┌─ %s ─", title)
	padding := 60 - len(title) - 4 // Adjust based on desired width
	if padding > 0 {
		fmt.Fprint(f.writer, strings.Repeat("─", padding))
	}
	fmt.Fprintf(f.writer, "┐\n")
}

// printKeyValueTable prints a simple key-value table
func (f *StatusTableFormatter) printKeyValueTable(data [][]string, keyWidth int) error {
	for _, row := range data {
		if len(row) >= 2 {
			fmt.Fprintf(f.writer, "│ %-*s │ %s\n", keyWidth, row[0], row[1])
		}
	}
	fmt.Fprintf(f.writer, "└")
	fmt.Fprint(f.writer, strings.Repeat("─", keyWidth+35)) // Adjust total width
	fmt.Fprintf(f.writer, "┘\n")
	return nil
}

// Helper functions for formatting

// formatProcessState formats a session status with a visual indicator
func formatProcessState(state string) string {
	switch strings.ToLower(state) {
	case "idle":
		return "💤 Idle"
	case "working":
		return "🔄 Working"
	case "needs_input":
		return "⏳ Waiting"
	case "success":
		return "✓ Success"
	case "error":
		return "❌ Error"
	case "disconnected":
		return "✗ Disconnected"
	default:
		return state
	}
}

// formatTimeAgo formats a time as "time ago"
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "Just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}

// shortenPath shortens a path to fit within the specified length
func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	// Try to keep the filename and some parent directories
	parts := strings.Split(path, "/")
	if len(parts) <= 1 {
		return path[:maxLen-3] + "..."
	}

	filename := parts[len(parts)-1]
	if len(filename) > maxLen-3 {
		return filename[:maxLen-3] + "..."
	}

	// Build path from the end
	result := filename
	for i := len(parts) - 2; i >= 0; i-- {
		candidate := parts[i] + "/" + result
		if len(candidate) > maxLen-3 {
			return ".../" + result
		}
		result = candidate
	}

	return result
}
