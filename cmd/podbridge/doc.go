// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for podbridge.
//
// This package implements the Cobra command hierarchy for the podbridge
// CLI: the root command, image commands (build, images, inspect, push),
// container commands (run, logs, rm, stop, kill, wait), and the engine
// probe (info).
package cmd
