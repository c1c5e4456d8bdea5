package errors

import (
	"strings"
	"unicode"
)

// maxColumnNameLength bounds column names accepted from requests and config files.
const maxColumnNameLength = 256

// ValidateColumnName checks that a column name taken from a request is usable.
// It rejects empty names, overly long names, and names containing control
// characters. Whether the column exists is checked later against the dataset.
func ValidateColumnName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "%s: column name cannot be empty", field)
	}

	if len(name) > maxColumnNameLength {
		return New(ErrCodeInvalidInput, "%s: column name too long (max %d characters)", field, maxColumnNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s: column name %q contains control characters", field, name)
		}
	}

	return nil
}

// ValidateOneOf checks that value is one of the allowed values.
// The error lists the allowed values so the caller can self-correct.
func ValidateOneOf(code Code, field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, value, strings.Join(allowed, ", "))
}
