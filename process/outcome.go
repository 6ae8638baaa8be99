package process

import "time"

// Outcome is the result of a process that ran to completion.
type Outcome struct {
	// ID correlates the log lines of one execution.
	ID string
	// Success is true iff the process exited with status 0.
	Success bool
	// Stdout is everything the child wrote to standard output.
	Stdout string
	// Stderr is everything the child wrote to standard error.
	Stderr string
	// ExitCode is the exit status, -1 if the child was killed by a signal.
	ExitCode int
	// Signal is the number of the signal that killed the child, or 0.
	Signal int
	// Duration spans Start to reap.
	Duration time.Duration
}
