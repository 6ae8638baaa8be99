// Package errors provides the structured error type shared by shellcmd packages.
//
// AppError carries a machine-readable code, a human-readable message and a
// retryable flag derived from the code. The process package keeps its own
// typed errors (SpawnError, ExitError, ...) and converts them to AppError
// when a caller needs a uniform classification, for example to decide
// whether a failed execution is worth retrying.
package errors
