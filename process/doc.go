// Package process builds and runs a single external program.
//
// A Command is an immutable description of one invocation: the program, its
// arguments, an optional environment overlay and optional standard input.
// Every builder method returns a new Command, so a base command can be shared
// and specialized freely.
//
//	out, err := process.Execute(ctx,
//		process.New("grep").WithArgs("a.").WithInput("x\nay\nz\n"))
//
// Execute wires all three standard streams to pipes, writes the input while
// draining stdout and stderr concurrently, waits for the child and decodes
// both captures as UTF-8. A non-zero exit is reported as an *ExitError that
// carries the same Outcome a successful run returns. Spawn and decode
// failures are fatal and produce no Outcome. ExecuteIgnoringStatus folds the
// exit status back into the Outcome.
//
// Captured output that is not valid UTF-8 fails the call with a
// *DecodeError. The raw bytes are not returned.
//
// Pipe chains commands through captured strings: each stage's stdout becomes
// the next stage's input. Live process-to-process pipes are not supported.
package process
