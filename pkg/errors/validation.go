package errors

import (
	"strings"
	"unicode"
)

const (
	maxIDLength   = 128
	maxNameLength = 256
)

// ValidateID validates a hierarchy node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators (ids end up in URLs and storage keys)
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "id %q cannot contain path separators", id)
	}

	return nil
}

// ValidateName validates a display name.
// Names may contain spaces but no control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) && r != '\n' {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}
