// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/podbridge/podbridge/internal/proc"
	"github.com/podbridge/podbridge/pkg/engine"
)

// followReadTimeout is the bounded wait between output checks while
// following logs. Longer than the default so the exit probe between
// quiet intervals runs at a gentler cadence.
const followReadTimeout = 2 * time.Second

// containerRecord is the slice of the inspect payload the handle keeps
// decoded next to the raw snapshot.
type containerRecord struct {
	ID    string `json:"Id"`
	State struct {
		Status   string `json:"Status"`
		ExitCode int    `json:"ExitCode"`
	} `json:"State"`
}

// Container is a handle to one container managed through the engine
// CLI. It caches the inspect snapshot taken at construction or by the
// most recent Reload; the accessors never refresh it on their own. The
// handle holds no lock: callers running conflicting operations on the
// same container, such as Remove racing Logs, serialize them
// themselves.
type Container struct {
	id     string
	cli    *cli
	logger *log.Logger

	attrs  json.RawMessage
	record containerRecord
}

var _ engine.Container = (*Container)(nil)

// newContainer builds a handle for id and loads its first snapshot. The
// id may be a short prefix; the handle adopts the full identifier from
// the snapshot.
func newContainer(ctx context.Context, c *cli, logger *log.Logger, id string) (*Container, error) {
	ctr := &Container{id: id, cli: c, logger: logger}
	if err := ctr.Reload(ctx); err != nil {
		return nil, err
	}
	return ctr, nil
}

// ID returns the container's full identifier.
func (c *Container) ID() string { return c.id }

// Reload refreshes the cached snapshot from inspect. It fails with a
// *CommandError once the container no longer exists, which a caller
// using auto-remove can observe immediately after the container exits.
func (c *Container) Reload(ctx context.Context) error {
	lines, err := c.cli.run(ctx,
		[]string{"inspect", "--type", "container", "--format", "json", c.id},
		withCapture(proc.CaptureStdout),
	)
	if err != nil {
		return err
	}
	raws, err := parseJSONOrLines(lines)
	if err != nil {
		return err
	}
	if len(raws) != 1 {
		return fmt.Errorf("inspect %s: expected exactly one container record, got %d", c.id, len(raws))
	}
	var rec containerRecord
	if err := json.Unmarshal(raws[0], &rec); err != nil {
		return fmt.Errorf("inspect %s: decoding container record: %w", c.id, err)
	}
	if !strings.HasPrefix(rec.ID, c.id) {
		return fmt.Errorf("inspect %s: record id %s does not match the handle", c.id, rec.ID)
	}
	c.id = rec.ID
	c.attrs = raws[0]
	c.record = rec
	return nil
}

// Logs returns the container's combined log output collected so far as
// one buffer, lines joined by newlines.
func (c *Container) Logs(ctx context.Context, opts engine.LogsOptions) ([]byte, error) {
	args := append(logsArgs(opts), c.id)
	lines, err := c.cli.run(ctx, args, withCapture(proc.CaptureCombined))
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// StreamLogs follows the container's combined log output. The follow
// can hang on a container that has already exited, so each quiet
// read-timeout interval probes the container's status and stops the
// child once it reports exited; that cooperative stop ends the stream
// cleanly instead of surfacing as an error.
func (c *Container) StreamLogs(ctx context.Context, opts engine.LogsOptions) (engine.LineStream, error) {
	args := append(logsArgs(opts), "--follow", c.id)
	stream, err := c.cli.stream(ctx, args,
		withReadTimeout(followReadTimeout),
		withCancel(func() bool { return c.exited(ctx) }),
	)
	if err != nil {
		return nil, err
	}
	stream.swallowTerminated = true
	return stream, nil
}

// exited reports whether the container is done producing output. A
// failing probe counts as exited: the container is gone, and so are its
// logs.
func (c *Container) exited(ctx context.Context) bool {
	lines, err := c.cli.run(ctx,
		[]string{"inspect", "--format={{.State.Status}}", c.id},
		withCapture(proc.CaptureCombined),
	)
	if err != nil {
		return true
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) == "exited"
}

// Kill sends a signal to the container, SignalKill when none is given.
func (c *Container) Kill(ctx context.Context, signal engine.Signal) error {
	if signal == "" {
		signal = engine.SignalKill
	}
	lines, err := c.cli.run(ctx,
		[]string{"kill", "--signal", string(signal), c.id},
		withCapture(proc.CaptureStdout),
	)
	if err != nil {
		return err
	}
	c.logger.Debug("killed container", "id", c.id, "signal", signal, "output", joined(lines))
	return nil
}

// Stop requests a graceful shutdown, waiting up to timeout before the
// engine kills the container. A zero timeout means DefaultStopTimeout.
// The CLI takes whole seconds, so fractional timeouts round up.
func (c *Container) Stop(ctx context.Context, timeout time.Duration) error {
	if timeout == 0 {
		timeout = engine.DefaultStopTimeout
	}
	lines, err := c.cli.run(ctx,
		[]string{"stop", "--timeout", strconv.Itoa(ceilSeconds(timeout)), c.id},
		withCapture(proc.CaptureStdout),
	)
	if err != nil {
		return err
	}
	c.logger.Debug("stopped container", "id", c.id, "output", joined(lines))
	return nil
}

// Remove deletes the container.
func (c *Container) Remove(ctx context.Context) error {
	lines, err := c.cli.run(ctx, []string{"rm", c.id}, withCapture(proc.CaptureStdout))
	if err != nil {
		return err
	}
	c.logger.Debug("removed container", "id", c.id, "output", joined(lines))
	return nil
}

// Wait blocks until the container exits.
func (c *Container) Wait(ctx context.Context) error {
	lines, err := c.cli.run(ctx, []string{"wait", c.id}, withCapture(proc.CaptureStdout))
	if err != nil {
		return err
	}
	c.logger.Debug("container exited", "id", c.id, "output", joined(lines))
	return nil
}

// ExitCode returns the exit code recorded by the last Reload.
func (c *Container) ExitCode() int { return c.record.State.ExitCode }

// Status returns the status string recorded by the last Reload.
func (c *Container) Status() string { return c.record.State.Status }

// Attrs returns the raw inspect payload recorded by the last Reload.
func (c *Container) Attrs() json.RawMessage { return c.attrs }

func logsArgs(opts engine.LogsOptions) []string {
	args := []string{"logs"}
	if opts.Timestamps {
		args = append(args, "--timestamps")
	}
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	return args
}

func ceilSeconds(d time.Duration) int {
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

func joined(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, ""))
}
