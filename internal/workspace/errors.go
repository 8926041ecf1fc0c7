package workspace

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrOutsideWorkspace = errors.New("path is outside workspace root")
	ErrNotFound         = errors.New("file or path does not exist")
	ErrNotAFile         = errors.New("path is a directory, not a file")
	ErrNotADirectory    = errors.New("path is not a directory")
	ErrTooLarge         = errors.New("file too large")
	ErrBinaryContent    = errors.New("file content is not valid text")
	ErrInvalidPattern   = errors.New("invalid glob pattern")
)

// -- Error Types --

// RootError is returned when the workspace root itself is invalid.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// StatError is returned when a path inside the workspace cannot be inspected.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

// ReadError is returned when a validated file cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// WriteError is returned when a validated file cannot be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// IgnoreFileError is returned when the ignore file exists but cannot be read.
type IgnoreFileError struct {
	Path  string
	Cause error
}

func (e *IgnoreFileError) Error() string {
	return fmt.Sprintf("failed to read ignore file at %s: %v", e.Path, e.Cause)
}
func (e *IgnoreFileError) Unwrap() error { return e.Cause }
