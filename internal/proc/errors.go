// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"errors"
	"fmt"
	"strings"
)

// --- Sentinel Errors ---

var (
	// ErrNonZeroExit is the sentinel error wrapped by ExitError.
	ErrNonZeroExit = errors.New("process exited with nonzero status")

	// ErrTerminated is the sentinel error wrapped by TerminatedError.
	ErrTerminated = errors.New("process terminated before completion")
)

type (
	// ExitError is returned when the child process exits on its own with a
	// nonzero status code.
	ExitError struct {
		Argv []string
		Code int
	}

	// TerminatedError is returned when the runner forcibly ended a
	// still-running child after its cancel predicate fired.
	TerminatedError struct {
		Argv []string
	}
)

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", strings.Join(e.Argv, " "), e.Code)
}

// Unwrap returns ErrNonZeroExit for errors.Is() compatibility.
func (e *ExitError) Unwrap() error {
	return ErrNonZeroExit
}

// Error implements the error interface.
func (e *TerminatedError) Error() string {
	return fmt.Sprintf("command %q was terminated before completion", strings.Join(e.Argv, " "))
}

// Unwrap returns ErrTerminated for errors.Is() compatibility.
func (e *TerminatedError) Unwrap() error {
	return ErrTerminated
}
