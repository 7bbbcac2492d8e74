// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCommand is the sentinel error wrapped by CommandError.
	ErrCommand = errors.New("engine command failed")

	// ErrVolumesUnsupported is returned by Engine.Run when the run
	// options carry volume mounts, which this backend does not support.
	ErrVolumesUnsupported = errors.New("volume mounts are not supported by the podman backend")
)

// CommandError reports a failed CLI invocation. It carries the full
// argv that was executed and, when output was captured, every line
// collected before the failure; the message that explains why the
// engine refused an operation is usually in the last of those lines.
//
// Unwrap exposes the underlying process error, so errors.Is works with
// proc.ErrNonZeroExit and proc.ErrTerminated and errors.As recovers the
// exit code from proc.ExitError. The CLI signals its own internal
// errors with a distinguished exit code (125 in podman) as opposed to a
// code coming from the container; that code is preserved verbatim for
// callers to disambiguate.
type CommandError struct {
	Argv   []string
	Output []string
	Err    error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	s := fmt.Sprintf("command %q failed: %v", strings.Join(e.Argv, " "), e.Err)
	if len(e.Output) > 0 {
		s += "\noutput:\n" + strings.Join(e.Output, "")
	}
	return s
}

// Unwrap returns the underlying process error for errors.Is and
// errors.As traversal.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCommand, letting callers detect any
// CLI failure without naming the concrete type.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommand
}
