// SPDX-License-Identifier: MPL-2.0

// Package podman implements the engine.ContainerEngine contract by
// driving a podman-compatible CLI as a subprocess.
//
// Commands run through a thin executor that prefixes the configured
// executable, logs each invocation, and wraps failures in CommandError
// together with the output captured before the failure. Structured
// output is decoded tolerantly: depending on version the CLI emits
// either one JSON document or newline-delimited JSON objects, and both
// forms are accepted. Long-running operations (build, push, log
// following) surface their output as live line streams backed by
// internal/proc.
package podman
