package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a command-level error with a structured error code.
// Codes have the form KV-<AREA>-<NNNN>; the numeric part follows HTTP
// conventions (4xxx client mistakes, 5xxx server faults).
type DomainError struct {
	Code    string // Error code (e.g., "KV-CMD-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Request Errors (REQ)
// ============================================================================

var (
	// ErrIncorrectFormat indicates the request is not an array of bulk strings.
	ErrIncorrectFormat = NewDomainError("KV-REQ-4000", "request must be an array of bulk strings")
)

// ============================================================================
// Command Errors (CMD)
// ============================================================================

var (
	// ErrCommandSyntax indicates a recognized command with the wrong argument shape.
	ErrCommandSyntax = NewDomainError("KV-CMD-4000", "syntax error")

	// ErrUnknownCommand indicates the command name is not supported.
	ErrUnknownCommand = NewDomainError("KV-CMD-4040", "unknown command")

	// ErrCommandNotAvailable indicates a command reached an executor that does not serve it.
	ErrCommandNotAvailable = NewDomainError("KV-CMD-5000", "command not available")
)

// ============================================================================
// Value Errors (VAL)
// ============================================================================

var (
	// ErrValueNotInteger indicates INCR on a value that is not a base-10 integer.
	ErrValueNotInteger = NewDomainError("KV-VAL-4000", "value is not an integer or out of range")

	// ErrIncrOverflow indicates the increment would leave the int64 range.
	ErrIncrOverflow = NewDomainError("KV-VAL-4001", "increment or decrement would overflow")
)

// SyntaxError returns ErrCommandSyntax carrying the offending request and a reason.
func SyntaxError(tokens []string, reason string) *DomainError {
	return ErrCommandSyntax.WithDetails(fmt.Sprintf("'%s': %s", strings.Join(tokens, " "), reason))
}

// UnknownCommand returns ErrUnknownCommand carrying the offending request.
func UnknownCommand(tokens []string) *DomainError {
	return ErrUnknownCommand.WithDetails(fmt.Sprintf("'%s'", strings.Join(tokens, " ")))
}
