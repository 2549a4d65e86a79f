package main

import "fmt"

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // ExitFailure is a fatal generation error.
	ExitUsage   = 2 // ExitUsage is an invalid command line.
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

func usageErr(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}
