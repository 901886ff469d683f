package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSessionTableFormatter_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	data := struct {
		Sessions []interface{} `json:"sessions"`
		Total    int           `json:"total"`
	}{
		Sessions: []interface{}{},
		Total:    0,
	}

	err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No sessions found") {
		t.Errorf("Expected 'No sessions found', got: %s", output)
	}
}

func TestSessionTableFormatter_SingleSession(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	session := struct {
		ExternalID string    `json:"external_id"`
		Tool       string    `json:"tool"`
		Status     string    `json:"status"`
		Summary    string    `json:"summary"`
		WindowName string    `json:"window_name"`
		UpdatedAt  time.Time `json:"updated_at"`
	}{
		ExternalID: "sess-abc123",
		Tool:       "claude",
		Status:     "working",
		Summary:    "Refactoring the config loader",
		WindowName: "myproject-main",
		UpdatedAt:  time.Now().Add(-5 * time.Minute),
	}

	data := struct {
		Sessions []interface{} `json:"sessions"`
		Total    int           `json:"total"`
	}{
		Sessions: []interface{}{session},
		Total:    1,
	}

	err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Sessions") {
		t.Errorf("Expected section header 'Sessions', got: %s", output)
	}
	if !strings.Contains(output, "sess-abc123") {
		t.Errorf("Expected external id 'sess-abc123', got: %s", output)
	}
	if !strings.Contains(output, "claude") {
		t.Errorf("Expected tool 'claude', got: %s", output)
	}
	if !strings.Contains(output, "🔄 Working") {
		t.Errorf("Expected formatted status '🔄 Working', got: %s", output)
	}
	if !strings.Contains(output, "Total sessions: 1") {
		t.Errorf("Expected 'Total sessions: 1', got: %s", output)
	}
}

func TestSessionTableFormatter_MultipleSessions(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	sessions := []interface{}{
		struct {
			ExternalID string    `json:"external_id"`
			Tool       string    `json:"tool"`
			Status     string    `json:"status"`
			Summary    string    `json:"summary"`
			WindowName string    `json:"window_name"`
			UpdatedAt  time.Time `json:"updated_at"`
		}{
			ExternalID: "sess-1",
			Tool:       "claude",
			Status:     "idle",
			Summary:    "Waiting for next instruction",
			WindowName: "project1-main",
			UpdatedAt:  time.Now().Add(-10 * time.Minute),
		},
		struct {
			ExternalID string    `json:"external_id"`
			Tool       string    `json:"tool"`
			Status     string    `json:"status"`
			Summary    string    `json:"summary"`
			WindowName string    `json:"window_name"`
			UpdatedAt  time.Time `json:"updated_at"`
		}{
			ExternalID: "sess-2",
			Tool:       "kiro",
			Status:     "error",
			Summary:    "Build failed",
			WindowName: "project2-feature",
			UpdatedAt:  time.Now().Add(-3 * time.Hour),
		},
	}

	data := struct {
		Sessions []interface{} `json:"sessions"`
		Total    int           `json:"total"`
	}{
		Sessions: sessions,
		Total:    2,
	}

	err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "┌─ Sessions ─") {
		t.Errorf("Expected table header, got: %s", output)
	}
	if !strings.Contains(output, "│ External ID") {
		t.Errorf("Expected column headers, got: %s", output)
	}
	if !strings.Contains(output, "sess-1") {
		t.Errorf("Expected first session, got: %s", output)
	}
	if !strings.Contains(output, "sess-2") {
		t.Errorf("Expected second session, got: %s", output)
	}
	if !strings.Contains(output, "Total sessions: 2") {
		t.Errorf("Expected 'Total sessions: 2', got: %s", output)
	}
	if !strings.Contains(output, "💤 Idle") {
		t.Errorf("Expected idle status formatting, got: %s", output)
	}
	if !strings.Contains(output, "❌ Error") {
		t.Errorf("Expected error status formatting, got: %s", output)
	}
}

func TestSessionTableFormatter_NilData(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	err := formatter.Format(nil)
	if err == nil {
		t.Error("Expected error for nil data, got nil")
	}

	expectedError := "invalid data type for session formatter"
	if !strings.Contains(err.Error(), expectedError) {
		t.Errorf("Expected error containing '%s', got: %v", expectedError, err)
	}
}

func TestSessionTableFormatter_InvalidDataType(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	err := formatter.Format("invalid data")
	if err == nil {
		t.Error("Expected error for invalid data type, got nil")
	}

	expectedError := "invalid data type for session formatter"
	if !strings.Contains(err.Error(), expectedError) {
		t.Errorf("Expected error containing '%s', got: %v", expectedError, err)
	}
}

func TestSessionTableFormatter_TimeFormatting(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	now := time.Now()
	session := struct {
		ExternalID string    `json:"external_id"`
		Tool       string    `json:"tool"`
		Status     string    `json:"status"`
		Summary    string    `json:"summary"`
		WindowName string    `json:"window_name"`
		UpdatedAt  time.Time `json:"updated_at"`
	}{
		ExternalID: "sess-time",
		Tool:       "claude",
		Status:     "idle",
		Summary:    "test",
		WindowName: "test-main",
		UpdatedAt:  now.Add(-25 * time.Hour), // Should show as "1d ago"
	}

	data := struct {
		Sessions []interface{} `json:"sessions"`
		Total    int           `json:"total"`
	}{
		Sessions: []interface{}{session},
		Total:    1,
	}

	err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "d ago") && !strings.Contains(output, "h ago") {
		t.Errorf("Expected human-readable time format, got: %s", output)
	}
}

func TestSessionTableFormatter_LongSummaryShortening(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSessionTableFormatter(&buf)

	longSummary := "This is an extremely long session summary that describes in great detail exactly what the assistant is currently doing and why"
	session := struct {
		ExternalID string    `json:"external_id"`
		Tool       string    `json:"tool"`
		Status     string    `json:"status"`
		Summary    string    `json:"summary"`
		WindowName string    `json:"window_name"`
		UpdatedAt  time.Time `json:"updated_at"`
	}{
		ExternalID: "sess-long",
		Tool:       "claude",
		Status:     "working",
		Summary:    longSummary,
		WindowName: "test-main",
		UpdatedAt:  time.Now(),
	}

	data := struct {
		Sessions []interface{} `json:"sessions"`
		Total    int           `json:"total"`
	}{
		Sessions: []interface{}{session},
		Total:    1,
	}

	err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, longSummary) {
		t.Errorf("Expected long summary to be shortened, but found full string in output: %s", output)
	}
}
