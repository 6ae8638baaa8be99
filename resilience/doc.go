// Package resilience provides fault-tolerance primitives used around process
// execution.
//
//   - Retry: re-runs an operation with exponential backoff, typically a spawn
//     that failed for a transient reason (EAGAIN, ENOMEM, too many open files)
//   - CircuitBreaker: stops launching a program that keeps failing to start
//   - Bulkhead: caps how many child processes run at the same time
//
// The runner package composes them in the order Bulkhead → CircuitBreaker →
// Retry → execute.
package resilience
