package cli

import (
	"errors"
	"fmt"
)

// Exit codes for simmeta
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitConfigError   = 2
	ExitLoadFailed    = 3
	ExitWarnings      = 4
	ExitNotFound      = 5
	ExitServerFailure = 6
)

// ExitError carries the process exit code for err.
type ExitError struct {
	Code  int
	Cause error
}

func (e *ExitError) Error() string { return e.Cause.Error() }
func (e *ExitError) Unwrap() error { return e.Cause }

func withCode(code int, format string, args ...any) error {
	return &ExitError{Code: code, Cause: fmt.Errorf(format, args...)}
}

// ExitCode extracts the exit code from an error chain.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitGeneralError
}
