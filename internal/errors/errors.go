package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/standardbeagle/mgrep/internal/types"
)

// Error types for the mgrep system
type ErrorType string

const (
	// Invocation errors
	ErrorTypeUsage ErrorType = "usage"

	// Scheduling errors
	ErrorTypeTaskCreate ErrorType = "task_create"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFileRead     ErrorType = "file_read"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// UsageError represents a bad invocation detected before any task is spawned
type UsageError struct {
	Type      ErrorType
	Reason    string
	Timestamp time.Time
}

// NewUsageError creates a new usage error
func NewUsageError(reason string) *UsageError {
	return &UsageError{
		Type:      ErrorTypeUsage,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// NewArgCountError reports a missing pattern or file list
func NewArgCountError() *UsageError {
	return NewUsageError("incorrect number of command line arguments.")
}

// NewPatternTooLongError reports a pattern that exceeds the line cap
func NewPatternTooLongError(limit int) *UsageError {
	return NewUsageError(fmt.Sprintf("pattern string is larger than max line length of %d.", limit))
}

// Error implements the error interface
func (e *UsageError) Error() string {
	return e.Reason
}

// IsUsageError reports whether err is or wraps a UsageError
func IsUsageError(err error) bool {
	var ue *UsageError
	return stderrors.As(err, &ue)
}

// FileError represents a failure to open or read one task's file
type FileError struct {
	Type       ErrorType
	TaskID     types.TaskID
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op string, id types.TaskID, path string, err error) *FileError {
	errorType := ErrorTypeFileRead
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	case stderrors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		TaskID:     id,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("task %d: file %s failed for %s: %v", e.TaskID, e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// SystemMessage returns the operating system's description of the failure,
// without the path and operation prefix that *fs.PathError adds.
func (e *FileError) SystemMessage() string {
	return SystemMessage(e.Underlying)
}

// SystemMessage strips *fs.PathError decoration down to the errno text
// ("no such file or directory", "permission denied", ...).
func SystemMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *fs.PathError
	if stderrors.As(err, &pe) && pe.Err != nil {
		return pe.Err.Error()
	}
	return err.Error()
}

// TaskError represents a worker that could not be started
type TaskError struct {
	Type       ErrorType
	TaskID     types.TaskID
	Underlying error
	Timestamp  time.Time
}

// ErrWorkerUnavailable is the cause recorded when the scheduler refuses a new task
var ErrWorkerUnavailable = stderrors.New("no worker available")

// NewTaskError creates a new task creation error
func NewTaskError(id types.TaskID, err error) *TaskError {
	return &TaskError{
		Type:       ErrorTypeTaskCreate,
		TaskID:     id,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("could not start task %d: %v", e.TaskID, e.Underlying)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
