package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a library block name for safety and correctness.
// Block names double as storage keys, so names that could be used for path
// traversal or key injection are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// identifierRegex matches HDL-style identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidateIdentifier validates a pin or module name as an HDL identifier
// (letter or underscore followed by letters, digits, '_' or '$'). The
// netlist itself accepts any string; this is for tools that want to emit
// names into generated code.
func ValidateIdentifier(name string) error {
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid identifier: %q", name)
	}
	return nil
}
