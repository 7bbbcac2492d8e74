// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

const (
	// DefaultReadTimeout bounds each wait for new output when
	// Options.ReadTimeout is zero.
	DefaultReadTimeout = 1 * time.Second

	// termGrace is how long a terminated child gets to exit after SIGTERM
	// before it is killed outright.
	termGrace = 2 * time.Second

	// readBufSize is the reader goroutine's per-read buffer size.
	readBufSize = 4096

	// chunkQueueLen bounds how many reads may sit between the reader
	// goroutine and the consumer before the reader blocks.
	chunkQueueLen = 32
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd
	// instances. It matches exec.CommandContext and allows injection of
	// mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Options describes a single child process invocation.
	Options struct {
		// Argv is the command and its arguments. Must not be empty.
		Argv []string

		// Input, when non-empty, is written to the child's stdin in full,
		// after which stdin is closed.
		Input string

		// Capture selects which of the child's output streams are
		// collected. CaptureNone invocations go through Run, capturing
		// ones through Start.
		Capture CaptureMode

		// ReadTimeout bounds each wait for new output before the runner
		// checks for process exit and cancellation. Zero means
		// DefaultReadTimeout.
		ReadTimeout time.Duration

		// Cancel is polled once per ReadTimeout interval that passes
		// without new output. When it returns true the child is
		// terminated, but only after one further quiet interval so output
		// already in flight can drain. A terminated invocation fails with
		// TerminatedError.
		Cancel func() bool

		// ExecCommand overrides how the child process is created. Nil
		// means exec.CommandContext.
		ExecCommand ExecCommandFunc
	}
)

// newCommand builds the exec.Cmd for an invocation. WaitDelay is always
// set so a child that inherits the output pipes cannot wedge Wait forever
// after context cancellation.
func newCommand(ctx context.Context, opts Options) *exec.Cmd {
	execCommand := opts.ExecCommand
	if execCommand == nil {
		execCommand = exec.CommandContext
	}
	cmd := execCommand(ctx, opts.Argv[0], opts.Argv[1:]...)
	if opts.Input != "" {
		cmd.Stdin = strings.NewReader(opts.Input)
	}
	cmd.WaitDelay = termGrace
	return cmd
}

// Run executes an invocation without capturing output: the child writes
// straight to the parent's stdout and stderr. It blocks until the child
// exits and returns an ExitError for a nonzero status. Options.Cancel is
// not consulted; interactive invocations are canceled through ctx.
func Run(ctx context.Context, opts Options) error {
	if len(opts.Argv) == 0 {
		return errors.New("empty argv")
	}
	if err := opts.Capture.Validate(); err != nil {
		return err
	}
	if opts.Capture.Capturing() {
		return fmt.Errorf("capture mode %q collects output; use Start", opts.Capture)
	}

	cmd := newCommand(ctx, opts)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("command %q: %w", strings.Join(opts.Argv, " "), context.Cause(ctx))
		}
		if exitErr, ok := errors.AsType[*exec.ExitError](err); ok {
			return &ExitError{Argv: opts.Argv, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", opts.Argv[0], err)
	}
	return nil
}

// Start launches an invocation and returns a Stream over its decoded
// output lines. The caller must drain the stream until Scan reports
// false and then consult Err; a stream abandoned before that point must
// be closed or the child process leaks.
func Start(ctx context.Context, opts Options) (*Stream, error) {
	if len(opts.Argv) == 0 {
		return nil, errors.New("empty argv")
	}
	if err := opts.Capture.Validate(); err != nil {
		return nil, err
	}
	if !opts.Capture.Capturing() {
		return nil, fmt.Errorf("capture mode %q collects no output; use Run", opts.Capture)
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	cmd := newCommand(ctx, opts)
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating output pipe: %w", err)
	}
	switch opts.Capture {
	case CaptureStdout:
		cmd.Stdout = pw
		cmd.Stderr = os.Stderr
	case CaptureStderr:
		cmd.Stdout = os.Stdout
		cmd.Stderr = pw
	case CaptureCombined:
		cmd.Stdout = pw
		cmd.Stderr = pw
	}

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("starting %s: %w", opts.Argv[0], err)
	}
	// The child holds its own descriptor for the write end now; dropping
	// ours lets the read side see EOF when the child exits.
	pw.Close()

	s := &Stream{
		ctx:         ctx,
		cmd:         cmd,
		argv:        opts.Argv,
		readTimeout: readTimeout,
		cancel:      opts.Cancel,
		chunks:      make(chan []byte, chunkQueueLen),
		readerDone:  make(chan struct{}),
	}
	go s.read(pr)
	return s, nil
}

// Stream is a pull iterator over a child process's output lines, shaped
// like bufio.Scanner: call Scan until it reports false, read each line
// with Text, then check Err. It is not safe for concurrent use.
//
// Lines keep their `\n` or `\r` terminators; a trailing unterminated
// buffer is flushed as one final line. Err reports nil at a normal end
// of stream, a TerminatedError when the cancel predicate forced
// termination, and an ExitError when the child exited nonzero. Lines
// produced before a failure are always delivered before Scan reports
// false.
type Stream struct {
	ctx  context.Context
	cmd  *exec.Cmd
	argv []string

	readTimeout time.Duration
	cancel      func() bool

	chunks     chan []byte
	readerDone chan struct{}
	exited     atomic.Bool
	waitErr    error

	timer     *time.Timer
	killTimer *time.Timer

	buf   []byte
	last  byte
	ready []string
	line  string

	drained    bool
	armed      bool
	terminated bool
	done       bool
	err        error
}

// read drains the pipe into the chunk queue, then reaps the child. The
// queue is closed before Wait so the consumer can tell "no more output"
// apart from "still running" while the exit status is collected.
func (s *Stream) read(pr *os.File) {
	defer close(s.readerDone)
	buf := make([]byte, readBufSize)
	for {
		n, err := pr.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.chunks <- chunk
		}
		if err != nil {
			break
		}
	}
	close(s.chunks)
	pr.Close()
	s.waitErr = s.cmd.Wait()
	s.exited.Store(true)
}

// Scan advances to the next output line, blocking for at most ReadTimeout
// between checks for process exit and cancellation. It reports false once
// the stream is exhausted; Err then holds the invocation's outcome.
func (s *Stream) Scan() bool {
	for {
		if len(s.ready) > 0 {
			s.line = s.ready[0]
			s.ready = s.ready[1:]
			return true
		}
		if s.done {
			return false
		}
		if s.drained {
			// The child closed its output but may still be running, for
			// example after forking a daemon. Keep polling until it either
			// exits or the cancel predicate stops it.
			select {
			case <-s.readerDone:
				s.finish()
			case <-s.pollTimer():
				s.quietPoll()
			}
			continue
		}
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.drained = true
				continue
			}
			s.split(chunk)
		case <-s.pollTimer():
			s.quietPoll()
		}
	}
}

// quietPoll runs once per ReadTimeout interval that passed without new
// output. Order matters: an exited child ends the stream before the
// cancel predicate is ever consulted, and a predicate that fired on the
// previous interval terminates the child only now, after one interval's
// grace for in-flight output.
func (s *Stream) quietPoll() {
	if s.exited.Load() {
		// The reader closed the queue before reaping the child, so this
		// loop collects every byte that was read before the exit.
		for chunk := range s.chunks {
			s.split(chunk)
		}
		s.drained = true
		s.finish()
		return
	}
	if s.armed {
		s.terminate()
		s.finish()
		return
	}
	if s.cancel != nil {
		s.armed = s.cancel()
	}
}

// terminate asks the child to stop and escalates to SIGKILL if it has not
// exited after termGrace.
func (s *Stream) terminate() {
	s.terminated = true
	if s.cmd.Process == nil {
		return
	}
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
	s.killTimer = time.AfterFunc(termGrace, func() {
		_ = s.cmd.Process.Kill()
	})
}

// finish flushes the trailing partial line, joins the reader goroutine,
// and classifies the outcome. Called exactly once per stream.
func (s *Stream) finish() {
	if len(s.buf) > 0 {
		s.flushLine()
	}
	// Unblock the reader if it is still forwarding, then join it so
	// waitErr is settled. Bytes discarded here belong to a child that was
	// terminated mid-write.
	for range s.chunks {
	}
	<-s.readerDone
	if s.killTimer != nil {
		s.killTimer.Stop()
	}
	switch {
	case s.terminated:
		s.err = &TerminatedError{Argv: s.argv}
	case s.waitErr != nil:
		if s.ctx.Err() != nil {
			s.err = fmt.Errorf("command %q: %w", strings.Join(s.argv, " "), context.Cause(s.ctx))
		} else if exitErr, ok := errors.AsType[*exec.ExitError](s.waitErr); ok {
			s.err = &ExitError{Argv: s.argv, Code: exitErr.ExitCode()}
		} else {
			s.err = fmt.Errorf("waiting for %s: %w", s.argv[0], s.waitErr)
		}
	}
	s.done = true
}

// split feeds a chunk through the line splitter. A line is flushed when a
// `\n` is appended, or when the previous byte was a `\r` and the incoming
// byte is not a `\n`, so carriage-return progress redraws surface as
// their own lines while CRLF stays one line.
func (s *Stream) split(chunk []byte) {
	for _, c := range chunk {
		if s.last == '\r' && len(s.buf) > 0 && c != '\n' {
			s.flushLine()
		}
		s.buf = append(s.buf, c)
		if c == '\n' {
			s.flushLine()
		}
		s.last = c
	}
}

// flushLine decodes the pending bytes permissively and queues the line.
// Invalid UTF-8 sequences become replacement characters rather than
// aborting the stream.
func (s *Stream) flushLine() {
	s.ready = append(s.ready, strings.ToValidUTF8(string(s.buf), "�"))
	s.buf = s.buf[:0]
}

// pollTimer arms the reusable poll timer and returns its channel.
func (s *Stream) pollTimer() <-chan time.Time {
	if s.timer == nil {
		s.timer = time.NewTimer(s.readTimeout)
		return s.timer.C
	}
	s.timer.Reset(s.readTimeout)
	return s.timer.C
}

// Text returns the line produced by the most recent successful Scan,
// including its terminator when one was read.
func (s *Stream) Text() string {
	return s.line
}

// Err returns the invocation's outcome once Scan has reported false. Nil
// means the child exited with status zero.
func (s *Stream) Err() error {
	if !s.done {
		return nil
	}
	return s.err
}

// Close releases a stream that is being abandoned before it was drained:
// the child is terminated, the reader joined, and undelivered lines are
// discarded. Closing a fully consumed stream is a no-op and never
// disturbs the outcome reported by Err.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.terminate()
	s.finish()
	s.ready = nil
	return nil
}
