package process

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Command describes one not-yet-executed invocation.
// The zero value is invalid; use New.
type Command struct {
	program     string
	args        []string
	env         map[string]string // nil inherits the parent environment
	input       *string           // nil closes stdin immediately
	dir         string
	gracePeriod time.Duration
}

// New starts a command for program. The program is resolved via PATH at
// execution time, not here. New panics with a *BuildError if program is empty.
func New(program string) Command {
	if program == "" {
		panic(&BuildError{Field: "program", Reason: "program name is empty", Err: ErrEmptyProgram})
	}
	return Command{program: program}
}

// WithArgs appends args in order.
func (c Command) WithArgs(args ...string) Command {
	c.args = append(slices.Clip(c.args), args...)
	return c
}

// AppendArgs appends any string-typed values to c's arguments.
func AppendArgs[S ~string](c Command, args ...S) Command {
	next := make([]string, len(c.args), len(c.args)+len(args))
	copy(next, c.args)
	for _, a := range args {
		next = append(next, string(a))
	}
	c.args = next
	return c
}

// WithInput sets the text written to the child's stdin. The last call wins.
func (c Command) WithInput(text string) Command {
	c.input = &text
	return c
}

// WithDir sets the working directory. Empty inherits the caller's.
func (c Command) WithDir(dir string) Command {
	c.dir = dir
	return c
}

// WithGracePeriod sets how long a canceled child gets between SIGTERM and
// SIGKILL. Zero uses DefaultGracePeriod.
func (c Command) WithGracePeriod(d time.Duration) Command {
	c.gracePeriod = d
	return c
}

// Name returns the program name given to New.
func (c Command) Name() string { return c.program }

// Args returns a copy of the arguments, without the program.
func (c Command) Args() []string { return slices.Clone(c.args) }

// Argv returns the full argument vector, program first.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.args)+1)
	argv = append(argv, c.program)
	return append(argv, c.args...)
}

// Environ returns a copy of the environment overlay and whether one is set.
func (c Command) Environ() (map[string]string, bool) {
	if c.env == nil {
		return nil, false
	}
	return maps.Clone(c.env), true
}

// Input returns the stdin text and whether one is set.
func (c Command) Input() (string, bool) {
	if c.input == nil {
		return "", false
	}
	return *c.input, true
}

// Dir returns the working directory, empty when inherited.
func (c Command) Dir() string { return c.dir }

// GracePeriod returns the configured grace period, zero when unset.
func (c Command) GracePeriod() time.Duration { return c.gracePeriod }

// String renders the argv for logs. Arguments containing whitespace or
// quotes are Go-quoted; the result is not meant for a shell.
func (c Command) String() string {
	var b strings.Builder
	for i, arg := range c.Argv() {
		if i > 0 {
			b.WriteByte(' ')
		}
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\") {
			b.WriteString(strconv.Quote(arg))
			continue
		}
		b.WriteString(arg)
	}
	return b.String()
}

// Validate reports whether c can be handed to the OS.
// Execute calls it before spawning.
func (c Command) Validate() error {
	if c.program == "" {
		return &BuildError{Field: "program", Reason: "program name is empty", Err: ErrEmptyProgram}
	}
	if strings.IndexByte(c.program, 0) >= 0 {
		return invalid("program", "contains a NUL byte")
	}
	for i, arg := range c.args {
		if strings.IndexByte(arg, 0) >= 0 {
			return invalid("args["+strconv.Itoa(i)+"]", "contains a NUL byte")
		}
	}
	for _, k := range slices.Sorted(maps.Keys(c.env)) {
		switch {
		case k == "":
			return invalid("env", "empty variable name")
		case strings.ContainsAny(k, "=\x00"):
			return invalid("env["+k+"]", "variable name contains '=' or NUL")
		case strings.IndexByte(c.env[k], 0) >= 0:
			return invalid("env["+k+"]", "value contains a NUL byte")
		}
	}
	return nil
}

func invalid(field, reason string) *BuildError {
	return &BuildError{Field: field, Reason: reason, Err: ErrInvalidCommand}
}
