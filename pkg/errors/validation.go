package errors

import (
	"strings"
	"unicode"
)

// ValidateID validates a graph or file identifier for safety and correctness.
// IDs end up in store keys and file names, so the rules are intentionally
// conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidID, "id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
