package tree

import (
	"errors"
	"fmt"
)

// Sentinel errors carried by the panics raised in this package.
var (
	// ErrOutOfRange is matched by *OutOfRangeError.
	ErrOutOfRange = errors.New("tree: child index out of range")

	// ErrNoPayload is matched by *PayloadError.
	ErrNoPayload = errors.New("tree: vertex has no such payload")

	// ErrBadArgument is matched by *ArgumentError.
	ErrBadArgument = errors.New("tree: unsupported child argument")
)

// OutOfRangeError is raised when a child index falls outside [0, Size).
type OutOfRangeError struct {
	Index int
	Size  int
}

// Error returns the error string.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("tree: child index %d out of range [0,%d)", e.Index, e.Size)
}

// Is reports whether the target error matches ErrOutOfRange.
func (e *OutOfRangeError) Is(err error) bool {
	return err == ErrOutOfRange
}

// PayloadError is raised when a payload accessor is called on a vertex
// whose kind does not carry that payload.
type PayloadError struct {
	Payload string
}

// Error returns the error string.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("tree: vertex has no %s payload", e.Payload)
}

// Is reports whether the target error matches ErrNoPayload.
func (e *PayloadError) Is(err error) bool {
	return err == ErrNoPayload
}

// ArgumentError is raised by factories given an argument that is neither
// a Node nor a []Node.
type ArgumentError struct {
	Position int
	Value    any
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("tree: argument %d has unsupported type %T", e.Position, e.Value)
}

// Is reports whether the target error matches ErrBadArgument.
func (e *ArgumentError) Is(err error) bool {
	return err == ErrBadArgument
}

// IsOutOfRange reports whether err (typically a recovered panic value)
// is an OutOfRangeError.
func IsOutOfRange(err error) bool {
	var e *OutOfRangeError
	return errors.As(err, &e)
}

// IsNoPayload reports whether err is a PayloadError.
func IsNoPayload(err error) bool {
	var e *PayloadError
	return errors.As(err, &e)
}
