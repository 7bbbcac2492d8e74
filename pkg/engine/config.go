// SPDX-License-Identifier: MPL-2.0

package engine

import "time"

type (
	// Config configures a ContainerEngine backend.
	Config struct {
		// Executable is the engine CLI to drive. Empty means
		// DefaultExecutable.
		Executable string

		// DefaultTransport prefixes push destinations whose image spec
		// does not already name a transport. Empty means
		// DefaultTransport.
		DefaultTransport string

		// LogLevel, when set, is forwarded to the engine's run command as
		// --log-level.
		LogLevel string

		// ReadTimeout bounds each wait for engine output before exit and
		// cancellation are checked. Zero selects the runner default.
		ReadTimeout time.Duration

		// Credentials, when set, authenticate pushes against their
		// registry before the upload starts.
		Credentials *RegistryCredentials
	}

	// RegistryCredentials authenticate against an image registry. Empty
	// fields are left out of the login invocation.
	RegistryCredentials struct {
		// Registry is the registry host, empty for the engine's default.
		Registry string

		// Username identifies the account.
		Username string

		// Password is piped to the engine's login over stdin so it never
		// appears in a process listing.
		Password string
	}
)
