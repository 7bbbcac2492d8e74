// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"errors"
	"fmt"
)

// --- Capture Modes ---

const (
	// CaptureNone leaves the child's streams attached to the parent's
	// stdout and stderr; no output is collected.
	CaptureNone CaptureMode = ""
	// CaptureStdout collects the child's stdout; stderr stays attached to
	// the parent's stderr.
	CaptureStdout CaptureMode = "stdout"
	// CaptureStderr collects the child's stderr; stdout stays attached to
	// the parent's stdout.
	CaptureStderr CaptureMode = "stderr"
	// CaptureCombined collects stdout and stderr merged into one stream,
	// interleaved in the order the child flushed them.
	CaptureCombined CaptureMode = "combined"
)

// ErrInvalidCaptureMode is the sentinel error wrapped by
// InvalidCaptureModeError.
var ErrInvalidCaptureMode = errors.New("invalid capture mode")

type (
	// CaptureMode selects which of a child process's output streams are
	// collected. The zero value is CaptureNone.
	CaptureMode string

	// InvalidCaptureModeError is returned when a CaptureMode is not one of
	// the defined modes.
	InvalidCaptureModeError struct {
		Value CaptureMode
	}
)

// String returns the string representation of the CaptureMode.
func (m CaptureMode) String() string {
	if m == CaptureNone {
		return "none"
	}
	return string(m)
}

// Capturing reports whether the mode collects any output.
func (m CaptureMode) Capturing() bool {
	return m != CaptureNone
}

// Validate returns an error if the CaptureMode is not one of the defined
// modes.
func (m CaptureMode) Validate() error {
	switch m {
	case CaptureNone, CaptureStdout, CaptureStderr, CaptureCombined:
		return nil
	default:
		return &InvalidCaptureModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidCaptureModeError) Error() string {
	return fmt.Sprintf("invalid capture mode %q (valid modes: none, stdout, stderr, combined)", string(e.Value))
}

// Unwrap returns ErrInvalidCaptureMode for errors.Is() compatibility.
func (e *InvalidCaptureModeError) Unwrap() error {
	return ErrInvalidCaptureMode
}
