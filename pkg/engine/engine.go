// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// DefaultExecutable is the engine CLI driven when Config.Executable
	// is empty.
	DefaultExecutable = "podman"

	// DefaultTransport is the image transport prefixed to push
	// destinations when Config.DefaultTransport is empty.
	DefaultTransport = "docker://"

	// DefaultStopTimeout is how long Container.Stop waits for a graceful
	// shutdown when no timeout is given.
	DefaultStopTimeout = 10 * time.Second

	// SignalKill is the signal Container.Kill sends when none is given.
	SignalKill Signal = "KILL"
)

type (
	// Signal names a POSIX signal, by name ("KILL", "TERM") or number
	// ("9"). The empty value lets the operation pick its default.
	Signal string

	// LineStream is a pull iterator over the live output of an engine
	// operation, shaped like bufio.Scanner: call Scan until it reports
	// false, read each line with Text, then check Err. Lines keep their
	// terminators. A stream abandoned before Scan reports false must be
	// closed, or the process behind it leaks.
	LineStream interface {
		Scan() bool
		Text() string
		Err() error
		Close() error
	}

	// Container is a handle to one container managed by an engine.
	//
	// ExitCode, Status, and Attrs read the snapshot taken by the most
	// recent Reload; they never consult the engine themselves.
	Container interface {
		// ID returns the container's full identifier.
		ID() string

		// Reload refreshes the handle's state snapshot from the engine.
		Reload(ctx context.Context) error

		// Logs returns the container's combined log output collected so
		// far.
		Logs(ctx context.Context, opts LogsOptions) ([]byte, error)

		// StreamLogs follows the container's combined log output. The
		// stream ends cleanly once the container has exited and its
		// remaining output is delivered.
		StreamLogs(ctx context.Context, opts LogsOptions) (LineStream, error)

		// Kill sends a signal to the container. The empty signal means
		// SignalKill.
		Kill(ctx context.Context, signal Signal) error

		// Stop requests a graceful shutdown, waiting up to timeout before
		// the engine kills the container. A zero timeout means
		// DefaultStopTimeout.
		Stop(ctx context.Context, timeout time.Duration) error

		// Remove deletes the container.
		Remove(ctx context.Context) error

		// Wait blocks until the container exits.
		Wait(ctx context.Context) error

		// ExitCode returns the exit code recorded by the last Reload.
		ExitCode() int

		// Status returns the status string recorded by the last Reload,
		// for example "running" or "exited".
		Status() string

		// Attrs returns the raw inspect payload recorded by the last
		// Reload.
		Attrs() json.RawMessage
	}

	// ContainerEngine builds, lists, inspects, pushes, and runs container
	// images.
	ContainerEngine interface {
		// Build builds an image from opts and returns the build output as
		// a stream. A failing build reports its error through the
		// stream's Err, after the lines produced before the failure.
		Build(ctx context.Context, opts BuildOptions) (LineStream, error)

		// Images lists the tagged images known to the engine.
		Images(ctx context.Context) ([]Image, error)

		// InspectImage returns one image's tags and runtime
		// configuration.
		InspectImage(ctx context.Context, imageSpec string) (Image, error)

		// Push uploads an image to the registry encoded in its spec,
		// returning the push output as a stream.
		Push(ctx context.Context, imageSpec string) (LineStream, error)

		// Run starts a detached container from an image and returns a
		// handle to it.
		Run(ctx context.Context, imageSpec string, opts RunOptions) (Container, error)
	}
)
