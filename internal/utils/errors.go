package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeeftor/qmp-macro/internal/logging"
)

// ErrorExitCode represents different types of errors with their exit codes
type ErrorExitCode int

const (
	ExitCodeGeneral    ErrorExitCode = 1
	ExitCodeValidation ErrorExitCode = 1
	ExitCodeConnection ErrorExitCode = 2
	ExitCodeFileSystem ErrorExitCode = 3
)

// CodedError carries the exit code a failure should end the process with
type CodedError struct {
	Code ErrorExitCode
	Err  error
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// WithExitCode tags err with an exit code. A nil err stays nil.
func WithExitCode(err error, code ErrorExitCode) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Err: err}
}

// ExitCodeOf returns the exit code err was tagged with, or ExitCodeGeneral
func ExitCodeOf(err error) ErrorExitCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ExitCodeGeneral
}

// FatalError handles fatal errors with consistent logging and exit behavior
func FatalError(err error, context string) {
	logging.UserErrorf("%s: %v", context, err)
	os.Exit(int(ExitCodeOf(err)))
}

// ConnectionError wraps a QMP connection failure
func ConnectionError(vmid string, err error) error {
	return WithExitCode(fmt.Errorf("failed to connect to VM %s: %w", vmid, err), ExitCodeConnection)
}

// FileSystemError wraps a file operation failure
func FileSystemError(operation string, path string, err error) error {
	return WithExitCode(fmt.Errorf("failed to %s '%s': %w", operation, path, err), ExitCodeFileSystem)
}

// WarnOnError logs a warning for non-fatal errors
func WarnOnError(err error, context string) {
	if err != nil {
		logging.UserWarnf("Warning: %s: %v", context, err)
	}
}

// MultiError represents multiple errors that occurred
type MultiError struct {
	Errors  []error
	Context string
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred: %v (and %d more)", len(m.Errors), m.Errors[0], len(m.Errors)-1)
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// NewMultiError creates a new MultiError
func NewMultiError(context string) *MultiError {
	return &MultiError{
		Context: context,
		Errors:  make([]error, 0),
	}
}

// Add adds an error to the MultiError
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ErrorOrNil returns m when it holds errors, nil otherwise
func (m *MultiError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
