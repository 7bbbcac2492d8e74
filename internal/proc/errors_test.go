// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("running engine: %w", &ExitError{Argv: []string{"podman", "info"}, Code: 125})
	assert.ErrorIs(t, err, ErrNonZeroExit)

	exitErr, ok := errors.AsType[*ExitError](err)
	require.True(t, ok)
	assert.Equal(t, 125, exitErr.Code)
	assert.Contains(t, err.Error(), `"podman info"`)
	assert.Contains(t, err.Error(), "status 125")
}

func TestTerminatedError_Unwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("streaming logs: %w", &TerminatedError{Argv: []string{"podman", "logs", "--follow", "abc"}})
	assert.ErrorIs(t, err, ErrTerminated)

	termErr, ok := errors.AsType[*TerminatedError](err)
	require.True(t, ok)
	assert.Equal(t, []string{"podman", "logs", "--follow", "abc"}, termErr.Argv)
}
