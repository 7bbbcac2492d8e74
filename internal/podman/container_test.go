// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbridge/podbridge/pkg/engine"
)

const testContainerID = "aabbccddaabbccddaabbccddaabbccddaabbccddaabbccddaabbccddaabbccdd"

// inspectPayload renders a single-record inspect response for id.
func inspectPayload(id, status string, exitCode int) string {
	return fmt.Sprintf(`[{"Id":%q,"State":{"Status":%q,"ExitCode":%d},"Name":"runner"}]`+"\n",
		id, status, exitCode)
}

// testContainer builds a handle without loading a snapshot, for tests
// that exercise one operation in isolation.
func testContainer(rec *commandRecorder, id string) *Container {
	return &Container{id: id, cli: newTestCLI(rec), logger: log.New(io.Discard)}
}

func TestContainer_Reload(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("inspect", commandScript{stdout: inspectPayload(testContainerID, "running", 0)})

	ctr, err := newContainer(context.Background(), newTestCLI(rec), log.New(io.Discard), testContainerID[:12])
	require.NoError(t, err)

	assert.Equal(t, []string{
		"podman", "inspect", "--type", "container", "--format", "json", testContainerID[:12],
	}, rec.last())

	// The handle adopts the full id from the snapshot.
	assert.Equal(t, testContainerID, ctr.ID())
	assert.Equal(t, "running", ctr.Status())
	assert.Equal(t, 0, ctr.ExitCode())

	var attrs struct {
		Name string `json:"Name"`
	}
	require.NoError(t, json.Unmarshal(ctr.Attrs(), &attrs))
	assert.Equal(t, "runner", attrs.Name)
}

func TestContainer_ReloadTracksState(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("inspect", commandScript{stdout: inspectPayload(testContainerID, "running", 0)})

	ctr, err := newContainer(context.Background(), newTestCLI(rec), log.New(io.Discard), testContainerID)
	require.NoError(t, err)

	rec.script("inspect", commandScript{stdout: inspectPayload(testContainerID, "exited", 7)})

	// Accessors read the cached snapshot until the next Reload.
	assert.Equal(t, "running", ctr.Status())
	require.NoError(t, ctr.Reload(context.Background()))
	assert.Equal(t, "exited", ctr.Status())
	assert.Equal(t, 7, ctr.ExitCode())
}

func TestContainer_ReloadRejectsMismatchedRecord(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("inspect", commandScript{stdout: inspectPayload(testContainerID, "running", 0)})

	_, err := newContainer(context.Background(), newTestCLI(rec), log.New(io.Discard), "ffff0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestContainer_ReloadGoneContainer(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("inspect", commandScript{
			stdout:   "[]\n",
			stderr:   "Error: no such object\n",
			exitCode: 125,
		})

	ctr := testContainer(rec, testContainerID)
	err := ctr.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommand)

	// The captured output tells the caller the container does not exist.
	cmdErr, ok := errors.AsType[*CommandError](err)
	require.True(t, ok)
	assert.Equal(t, []string{"[]\n"}, cmdErr.Output)
}

func TestContainer_Logs(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("logs", commandScript{stdout: "before\nafter\n"})
	ctr := testContainer(rec, testContainerID)

	out, err := ctr.Logs(context.Background(), engine.LogsOptions{})
	require.NoError(t, err)
	// Lines keep their terminators and are joined with newlines.
	assert.Equal(t, []byte("before\n\nafter\n"), out)
	assert.Equal(t, []string{"podman", "logs", testContainerID}, rec.last())
}

func TestContainer_LogsOptions(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().script("logs", commandScript{stdout: "x\n"})
	ctr := testContainer(rec, testContainerID)

	_, err := ctr.Logs(context.Background(), engine.LogsOptions{Timestamps: true, Since: "10m"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"podman", "logs", "--timestamps", "--since", "10m", testContainerID,
	}, rec.last())
}

func TestContainer_StreamLogs(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("logs", commandScript{stdout: "one\ntwo\n"})
	ctr := testContainer(rec, testContainerID)

	stream, err := ctr.StreamLogs(context.Background(), engine.LogsOptions{Timestamps: true})
	require.NoError(t, err)

	var lines []string
	for stream.Scan() {
		lines = append(lines, stream.Text())
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []string{"one\n", "two\n"}, lines)
	assert.Equal(t, []string{
		"podman", "logs", "--timestamps", "--follow", testContainerID,
	}, rec.calls("logs")[0])
}

func TestContainer_Exited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script commandScript
		want   bool
	}{
		{
			name:   "running",
			script: commandScript{stdout: "running\n"},
			want:   false,
		},
		{
			name:   "exited",
			script: commandScript{stdout: "exited\n"},
			want:   true,
		},
		{
			name:   "probe fails",
			script: commandScript{stderr: "Error: no such object\n", exitCode: 125},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newCommandRecorder().script("inspect", tt.script)
			ctr := testContainer(rec, testContainerID)

			assert.Equal(t, tt.want, ctr.exited(context.Background()))
			assert.Equal(t, []string{
				"podman", "inspect", "--format={{.State.Status}}", testContainerID,
			}, rec.last())
		})
	}
}

func TestContainer_Kill(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().script("kill", commandScript{stdout: testContainerID + "\n"})
	ctr := testContainer(rec, testContainerID)

	require.NoError(t, ctr.Kill(context.Background(), ""))
	assert.Equal(t, []string{"podman", "kill", "--signal", "KILL", testContainerID}, rec.last())

	require.NoError(t, ctr.Kill(context.Background(), "TERM"))
	assert.Equal(t, []string{"podman", "kill", "--signal", "TERM", testContainerID}, rec.last())
}

func TestContainer_Stop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		want    string
	}{
		{name: "default", timeout: 0, want: "10"},
		{name: "whole seconds", timeout: 3 * time.Second, want: "3"},
		{name: "fraction rounds up", timeout: 2500 * time.Millisecond, want: "3"},
		{name: "sub-second rounds up to one", timeout: 100 * time.Millisecond, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newCommandRecorder().script("stop", commandScript{stdout: testContainerID + "\n"})
			ctr := testContainer(rec, testContainerID)

			require.NoError(t, ctr.Stop(context.Background(), tt.timeout))
			assert.Equal(t, []string{"podman", "stop", "--timeout", tt.want, testContainerID}, rec.last())
		})
	}
}

func TestContainer_RemoveAndWait(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder().
		script("rm", commandScript{stdout: testContainerID + "\n"}).
		script("wait", commandScript{stdout: "0\n"})
	ctr := testContainer(rec, testContainerID)

	require.NoError(t, ctr.Wait(context.Background()))
	assert.Equal(t, []string{"podman", "wait", testContainerID}, rec.last())

	require.NoError(t, ctr.Remove(context.Background()))
	assert.Equal(t, []string{"podman", "rm", testContainerID}, rec.last())
}
