package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidDescriptor indicates a catalogue entry that passed schema
	// validation but cannot be turned into a node kind.
	ErrInvalidDescriptor = errors.New("vertexgen: invalid descriptor")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("vertexgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("vertexgen: code generation failed")
)

// DescriptorError represents a descriptor-semantic error.
type DescriptorError struct {
	Kind    string // Node kind name
	Item    string // Slot, field, property or alias name (if applicable)
	Line    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	var b strings.Builder
	b.WriteString("vertexgen: descriptor error")
	if e.Kind != "" {
		b.WriteString(" on kind ")
		b.WriteString(e.Kind)
	}
	if e.Item != "" {
		b.WriteString(" item ")
		b.WriteString(e.Item)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
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
func (e *DescriptorError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DescriptorError.
func (e *DescriptorError) Is(target error) bool {
	return target == ErrInvalidDescriptor
}

// NewDescriptorError creates a new DescriptorError. line is the catalogue
// or schema line of item, 0 when unknown.
func NewDescriptorError(kind, item string, line int, message string) *DescriptorError {
	return &DescriptorError{
		Kind:    kind,
		Item:    item,
		Line:    line,
		Message: message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("vertexgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("vertexgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "types", "kind", "all", "template", "write", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("vertexgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsDescriptorError reports whether the error is a DescriptorError.
func IsDescriptorError(err error) bool {
	var descErr *DescriptorError
	return errors.As(err, &descErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
