package errors

import (
	"errors"
	"fmt"
)

// ErrIllegalState is matched by every IllegalStateError via errors.Is.
var ErrIllegalState = errors.New("illegal state")

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures invalid input, either in a job request, in agent
// configuration or in an argument handed to the execution context.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IllegalStateError signals a broken caller contract, such as assigning a
// write-once field a second time. It is returned to the caller and never
// recorded as an operational failure.
type IllegalStateError struct {
	Field   string
	Message string
}

// NewIllegalStateError constructs an IllegalStateError for the named field.
func NewIllegalStateError(field, message string) error {
	return &IllegalStateError{Field: field, Message: message}
}

func (e *IllegalStateError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("illegal state: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("illegal state: %s", e.Message)
}

// Is reports whether target is ErrIllegalState.
func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalState
}

// ActionError represents a runtime failure of a stage action.
type ActionError struct {
	Stage string
	Kind  string
	Err   error
}

// NewActionError constructs an ActionError.
func NewActionError(stage, kind string, err error) error {
	return &ActionError{Stage: stage, Kind: kind, Err: err}
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind != "" {
		return fmt.Sprintf("action %s failed in stage %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

// Unwrap exposes the root error.
func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// JobFailedError reports a job process that exited unsuccessfully.
type JobFailedError struct {
	ExitCode int
	Err      error
}

// NewJobFailedError constructs a JobFailedError.
func NewJobFailedError(exitCode int, err error) error {
	return &JobFailedError{ExitCode: exitCode, Err: err}
}

func (e *JobFailedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("job exited with code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("job exited with code %d", e.ExitCode)
}

// Unwrap exposes the underlying wait error.
func (e *JobFailedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
