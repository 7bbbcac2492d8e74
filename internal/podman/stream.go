// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"errors"

	"github.com/podbridge/podbridge/internal/proc"
)

// Stream is the live output of one engine operation, shaped like
// bufio.Scanner: call Scan until it reports false, read each line with
// Text, then check Err. Lines keep their terminators, and lines
// produced before a failure are always delivered before Scan reports
// false. It is not safe for concurrent use.
type Stream struct {
	inner *proc.Stream
	argv  []string

	// swallowTerminated turns a cooperative termination of the child
	// into a normal end of stream. Set for followed logs, where the
	// runner stops the child itself once the container has exited.
	swallowTerminated bool

	// cleanup releases resources scoped to the stream, such as the
	// temporary directory a tar build context was extracted into. Run
	// exactly once, when the stream ends or is closed.
	cleanup func()

	done bool
	err  error
}

// Scan advances to the next output line, returning false once the
// stream is exhausted. Err then holds the operation's outcome.
func (s *Stream) Scan() bool {
	if s.done {
		return false
	}
	if s.inner.Scan() {
		return true
	}
	s.finish()
	return false
}

// Text returns the line produced by the most recent successful Scan.
func (s *Stream) Text() string {
	return s.inner.Text()
}

// Err returns the operation's outcome once Scan has reported false: nil
// on success, a *CommandError otherwise.
func (s *Stream) Err() error {
	return s.err
}

// Close releases a stream abandoned before it was drained, terminating
// the child process behind it. Closing a fully consumed stream is a
// no-op.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	err := s.inner.Close()
	s.runCleanup()
	return err
}

func (s *Stream) finish() {
	s.done = true
	if err := s.inner.Err(); err != nil {
		if !s.swallowTerminated || !errors.Is(err, proc.ErrTerminated) {
			s.err = &CommandError{Argv: s.argv, Err: err}
		}
	}
	s.runCleanup()
}

func (s *Stream) runCleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}
