package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// InvalidCommand creates an AppError for a malformed command descriptor.
func InvalidCommand(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidCommand, Message: fmt.Sprintf("Invalid command: %s", reason),
	}
}

// Validation creates an AppError for configuration or input validation failures.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
	}
}

// CommandNotFound creates an AppError for an executable that could not be resolved.
func CommandNotFound(program string) *AppError {
	return &AppError{
		Code: ErrCodeCommandNotFound, Message: fmt.Sprintf("Command %q was not found.", program),
		Details: map[string]any{"program": program},
	}
}

// PermissionDenied creates an AppError for an executable that may not be started.
func PermissionDenied(program string) *AppError {
	return &AppError{
		Code: ErrCodePermissionDenied, Message: fmt.Sprintf("Permission denied starting %q.", program),
		Details: map[string]any{"program": program},
	}
}

// SpawnFailed creates an AppError for a process the OS failed to create.
func SpawnFailed(program string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSpawnFailed, Message: fmt.Sprintf("Failed to start %q.", program),
		Retryable: true, Details: map[string]any{"program": program}, Cause: cause,
	}
}

// ExitFailure creates an AppError for a process that exited with a non-success status.
func ExitFailure(program string, exitCode int) *AppError {
	return &AppError{
		Code: ErrCodeExitFailure, Message: fmt.Sprintf("Command %q exited with code %d.", program, exitCode),
		Details: map[string]any{"program": program, "exit_code": exitCode},
	}
}

// DecodeFailed creates an AppError for captured output that is not valid UTF-8.
func DecodeFailed(stream string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("Captured %s is not valid UTF-8.", stream),
		Details: map[string]any{"stream": stream}, Cause: cause,
	}
}

// StreamFailed creates an AppError for a failed read or write on a standard stream.
func StreamFailed(stream string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStreamFailed, Message: fmt.Sprintf("I/O on %s failed.", stream),
		Details: map[string]any{"stream": stream}, Cause: cause,
	}
}

// Timeout creates an AppError for an execution that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The command took too long and was stopped.",
		Retryable: true, Details: map[string]any{"operation": operation},
	}
}

// Canceled creates an AppError for an execution canceled by the caller.
func Canceled(operation string) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The command was canceled.",
		Details: map[string]any{"operation": operation},
	}
}

// Unavailable creates an AppError for an executor that refused to run the command.
func Unavailable(executor string) *AppError {
	return &AppError{
		Code: ErrCodeUnavailable, Message: fmt.Sprintf("The %s executor is temporarily unavailable.", executor),
		Retryable: true, Details: map[string]any{"executor": executor},
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsRetryable reports whether err's chain holds a retryable AppError.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; other errors become INTERNAL_ERROR with err as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
