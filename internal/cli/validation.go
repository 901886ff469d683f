package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidateSessionName validates a tmux session name
func ValidateSessionName(name string) error {
	if name == "" {
		return NewError("session name cannot be empty")
	}

	// tmux session names have specific requirements
	// They cannot contain certain characters
	if strings.Contains(name, ":") {
		return NewErrorWithSuggestion(
			"session name cannot contain ':'",
			"Use hyphens or underscores instead",
		)
	}

	if strings.Contains(name, ".") && (strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".")) {
		return NewErrorWithSuggestion(
			"session name cannot start or end with '.'",
			"Ensure dots are only used within the name",
		)
	}

	return nil
}

// ValidateBranchName validates a git branch name
func ValidateBranchName(name string) error {
	if name == "" {
		return NewError("branch name cannot be empty")
	}

	// Git branch naming rules
	if strings.HasPrefix(name, "-") {
		return NewError("branch name cannot start with '-'")
	}

	if strings.Contains(name, "..") {
		return NewError("branch name cannot contain '..'")
	}

	if strings.HasSuffix(name, "/") {
		return NewError("branch name cannot end with '/'")
	}

	if strings.HasSuffix(name, ".lock") {
		return NewError("branch name cannot end with '.lock'")
	}

	// Check for control characters and special chars
	controlChars := regexp.MustCompile(`[\x00-\x1f\x7f~^:?*[\]\\]`)
	if controlChars.MatchString(name) {
		return NewErrorWithSuggestion(
			"branch name contains invalid characters",
			"Use only alphanumeric characters, hyphens, underscores, and forward slashes",
		)
	}

	return nil
}

// ValidateFilePath validates that a file path exists and is accessible
func ValidateFilePath(path string) error {
	if path == "" {
		return NewError("file path cannot be empty")
	}

	// Expand home directory if needed
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return NewErrorWithCause("failed to get user home directory", err)
		}
		path = filepath.Join(home, path[2:])
	}

	// Check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return NewErrorWithSuggestion(
				fmt.Sprintf("file does not exist: %s", path),
				"Check the file path and ensure the file exists",
			)
		}
		return NewErrorWithCause(fmt.Sprintf("cannot access file: %s", path), err)
	}

	return nil
}

// ValidateDirectoryPath validates that a directory path exists and is accessible
func ValidateDirectoryPath(path string) error {
	if path == "" {
		return NewError("directory path cannot be empty")
	}

	// Expand home directory if needed
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return NewErrorWithCause("failed to get user home directory", err)
		}
		path = filepath.Join(home, path[2:])
	}

	// Check if directory exists
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewErrorWithSuggestion(
				fmt.Sprintf("directory does not exist: %s", path),
				"Check the directory path and ensure it exists",
			)
		}
		return NewErrorWithCause(fmt.Sprintf("cannot access directory: %s", path), err)
	}

	if !info.IsDir() {
		return NewError(fmt.Sprintf("path is not a directory: %s", path))
	}

	return nil
}

