// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/podbridge/podbridge/internal/proc"
)

type (
	// cli executes subcommands of one engine executable. It owns the
	// CLI-facing conventions: the executable prefix, debug logging of
	// every invocation, and CommandError wrapping. Command execution
	// through run is synchronous; stream is the separate entry point
	// for operations whose output is consumed live.
	cli struct {
		exe         string
		logger      *log.Logger
		execCommand proc.ExecCommandFunc
		readTimeout time.Duration
	}

	// execOption adjusts a single CLI invocation.
	execOption func(*execSettings)

	execSettings struct {
		input       string
		capture     proc.CaptureMode
		readTimeout time.Duration
		cancel      func() bool
	}
)

// withInput feeds the invocation's stdin with a short payload, written
// in full and then closed.
func withInput(input string) execOption {
	return func(s *execSettings) {
		s.input = input
	}
}

// withCapture selects which output streams the invocation collects.
func withCapture(mode proc.CaptureMode) execOption {
	return func(s *execSettings) {
		s.capture = mode
	}
}

// withReadTimeout overrides the bounded wait between output checks for
// this invocation.
func withReadTimeout(d time.Duration) execOption {
	return func(s *execSettings) {
		s.readTimeout = d
	}
}

// withCancel installs a cooperative stop predicate, polled once per
// quiet read-timeout interval.
func withCancel(fn func() bool) execOption {
	return func(s *execSettings) {
		s.cancel = fn
	}
}

func (c *cli) settings(opts []execOption) execSettings {
	s := execSettings{readTimeout: c.readTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (c *cli) options(argv []string, s execSettings) proc.Options {
	return proc.Options{
		Argv:        argv,
		Input:       s.input,
		Capture:     s.capture,
		ReadTimeout: s.readTimeout,
		Cancel:      s.cancel,
		ExecCommand: c.execCommand,
	}
}

// run executes one subcommand synchronously and returns the captured
// output lines, terminators included. Without withCapture the child
// writes straight to the parent's terminal and the returned lines are
// nil. Any failure is reported as a *CommandError carrying the lines
// collected before it.
func (c *cli) run(ctx context.Context, args []string, opts ...execOption) ([]string, error) {
	s := c.settings(opts)
	argv := append([]string{c.exe}, args...)
	c.logger.Debug("executing", "command", strings.Join(argv, " "))

	if !s.capture.Capturing() {
		if err := proc.Run(ctx, c.options(argv, s)); err != nil {
			return nil, &CommandError{Argv: argv, Err: err}
		}
		return nil, nil
	}

	stream, err := proc.Start(ctx, c.options(argv, s))
	if err != nil {
		return nil, &CommandError{Argv: argv, Err: err}
	}
	var lines []string
	for stream.Scan() {
		lines = append(lines, stream.Text())
	}
	if err := stream.Err(); err != nil {
		return nil, &CommandError{Argv: argv, Output: lines, Err: err}
	}
	return lines, nil
}

// stream executes one subcommand and returns its combined output as a
// live line stream. The caller drains the stream and then consults
// Err, which reports failures with the same *CommandError wrapping run
// uses.
func (c *cli) stream(ctx context.Context, args []string, opts ...execOption) (*Stream, error) {
	s := c.settings(opts)
	if !s.capture.Capturing() {
		s.capture = proc.CaptureCombined
	}
	argv := append([]string{c.exe}, args...)
	c.logger.Debug("executing", "command", strings.Join(argv, " "))

	inner, err := proc.Start(ctx, c.options(argv, s))
	if err != nil {
		return nil, &CommandError{Argv: argv, Err: err}
	}
	return &Stream{inner: inner, argv: argv}, nil
}
