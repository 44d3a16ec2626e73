// Package schederr defines the error kinds raised by the scheduler.
package schederr

import (
	"errors"
	"fmt"
)

// Error codes for the scheduler.
const (
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeInputError        = "INPUT_ERROR"
	CodeCapacityError     = "CAPACITY_ERROR"
	CodeInsertionOverflow = "INSERTION_OVERFLOW"
	CodeInvalidOperand    = "INVALID_OPERAND"
	CodeConfigError       = "CONFIG_ERROR"
)

// AppError represents a scheduler error tagged with a stable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Sentinel errors, one per code, for use with errors.Is.
var (
	ErrInputError        = New(CodeInputError, "input error")
	ErrCapacityError     = New(CodeCapacityError, "node count exceeds capacity")
	ErrInsertionOverflow = New(CodeInsertionOverflow, "insertion iteration limit exceeded")
	ErrInvalidOperand    = New(CodeInvalidOperand, "operand offset points before the head")
	ErrConfigError       = New(CodeConfigError, "configuration error")
)

// IsInputError reports whether err is (or wraps) an input error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputError)
}

// IsCapacityError reports whether err is (or wraps) a capacity error.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrCapacityError)
}

// IsInsertionOverflow reports whether err is (or wraps) an insertion overflow error.
func IsInsertionOverflow(err error) bool {
	return errors.Is(err, ErrInsertionOverflow)
}

// IsInvalidOperand reports whether err is (or wraps) an invalid operand error.
func IsInvalidOperand(err error) bool {
	return errors.Is(err, ErrInvalidOperand)
}

// GetErrorCode extracts the error code from err, or CodeUnknown if err
// is not (or does not wrap) an *AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the message from err, falling back to err.Error().
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ExitCode maps an error to the process exit code documented for the CLI:
// 0 is reserved for success and is never returned here.
func ExitCode(err error) int {
	switch GetErrorCode(err) {
	case CodeInputError:
		return 2
	case CodeCapacityError:
		return 3
	case CodeInsertionOverflow:
		return 4
	case CodeInvalidOperand:
		return 2
	case CodeConfigError:
		return 5
	default:
		return 1
	}
}
