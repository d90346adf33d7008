package load

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the validation classes detected while loading.
var (
	// ErrInvalidDocument indicates an unreadable or unparseable document.
	ErrInvalidDocument = errors.New("vertexgen: invalid document")
	// ErrInvalidSchema indicates a schema document that is not a valid
	// draft-4 schema or lacks the property dictionary.
	ErrInvalidSchema = errors.New("vertexgen: invalid schema")
	// ErrValidationFailed indicates a catalogue rejected by its schema.
	ErrValidationFailed = errors.New("vertexgen: validation failed")
)

// DocumentError reports a document that could not be read or parsed.
type DocumentError struct {
	Path    string
	Line    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString("vertexgen: document error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DocumentError.
func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// SchemaError reports a schema document that is inconsistent with its
// meta-schema.
type SchemaError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("vertexgen: schema error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// ValidationError reports a catalogue that violates its schema.
type ValidationError struct {
	Path string
	// Location is the JSON pointer of the offending value, e.g. "/3/extras/0".
	Location string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("vertexgen: validation error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// IsDocumentError reports whether the error is a DocumentError.
func IsDocumentError(err error) bool {
	var docErr *DocumentError
	return errors.As(err, &docErr)
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
