package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevelParsing(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "text", Output: &buf})

	log := For("test")
	log.Debug("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected debug message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Fatalf("expected component field in JSON output, got %q", buf.String())
	}
}

func TestInitInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "not-a-level", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "text", Output: &buf})

	if root.GetLevel().String() != "info" {
		t.Fatalf("expected info level fallback, got %s", root.GetLevel())
	}
}
