// SPDX-License-Identifier: MPL-2.0

// Package proc runs child processes and exposes their output as a lazy
// stream of decoded text lines split on `\n` or `\r`.
//
// The consumer side polls with a bounded wait so that "new output
// available", "process exited", and "caller wants to stop" can be
// multiplexed without OS-level select on the child's pipes. Cancellation
// is cooperative: a caller-supplied predicate is polled once per quiet
// interval and, when it fires, the child is terminated only after one
// further interval so output already in flight can drain.
package proc
