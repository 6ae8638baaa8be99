package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Command construction errors
const (
	// ErrCodeInvalidCommand indicates the command descriptor is malformed.
	ErrCodeInvalidCommand ErrorCode = "INVALID_COMMAND"
	// ErrCodeInvalidInput indicates configuration or caller input failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Spawn errors (the process never ran)
const (
	// ErrCodeCommandNotFound indicates the executable could not be resolved.
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	// ErrCodePermissionDenied indicates the executable could not be started due to permissions.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeSpawnFailed indicates the OS failed to create the process for another reason.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
)

// Execution errors (the process ran)
const (
	// ErrCodeExitFailure indicates the process exited with a non-success status.
	ErrCodeExitFailure ErrorCode = "EXIT_FAILURE"
	// ErrCodeDecodeFailed indicates captured output was not valid UTF-8.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	// ErrCodeStreamFailed indicates reading or writing a standard stream failed.
	ErrCodeStreamFailed ErrorCode = "STREAM_FAILED"
	// ErrCodeTimeout indicates the execution deadline was exceeded.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the caller canceled the execution.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Infrastructure errors
const (
	// ErrCodeUnavailable indicates the executor refused the call (open circuit, full bulkhead).
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSpawnFailed: true,
	ErrCodeTimeout:     true,
	ErrCodeUnavailable: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
