package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrInvalidOption indicates a required option is missing.
	ErrInvalidOption = errors.New("invalid option")

	// ErrNoActiveBuffer indicates no buffer is currently active.
	ErrNoActiveBuffer = errors.New("no active buffer")

	// ErrBufferNotFound indicates a buffer ID is unknown.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrNoFilePath indicates a buffer has no path to save to.
	ErrNoFilePath = errors.New("buffer has no file path")

	// ErrUnknownCommand indicates a command name is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoMotion indicates a motion could not be resolved, such as moving
	// left from the start of the buffer.
	ErrNoMotion = errors.New("cannot move there")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "save", "open")
	Target string // Target of the operation (e.g., file path, command name)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic raised by a command.
type RecoveredPanicError struct {
	Command string
	Value   any
}

func (e *RecoveredPanicError) Error() string {
	return fmt.Sprintf("command %s panicked: %v", e.Command, e.Value)
}
