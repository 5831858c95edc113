package errors

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// FieldError describes one invalid field of one record.
type FieldError struct {
	Record string // record identifier, e.g. the POI ID or "row 3"
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Record, f.Field, f.Reason)
}

// ValidationErrors aggregates field errors so a whole input file can be
// reported in one pass instead of failing on the first bad record.
type ValidationErrors []FieldError

// Add appends a field error.
func (v *ValidationErrors) Add(record, field, format string, args ...any) {
	*v = append(*v, FieldError{Record: record, Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Err returns nil when no errors were collected, otherwise an *Error with
// ErrCodeInvalidPOI whose cause lists every field error.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return Wrap(ErrCodeInvalidPOI, v, "%d invalid field(s)", len(v))
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, f := range v {
		lines[i] = f.String()
	}
	return strings.Join(lines, "; ")
}

// Fields returns the field errors carried anywhere in err's chain.
func Fields(err error) ValidationErrors {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v
	}
	return nil
}

// ValidateIconName validates an icon name before it is joined onto the icon
// directory. Icon names are bare file stems, so separators and traversal
// sequences are rejected.
func ValidateIconName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "icon name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "icon name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "icon name contains invalid control characters")
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "icon name cannot contain path components: %q", name)
	}
	return nil
}
