// SPDX-License-Identifier: MPL-2.0

// Package engine defines the contract between podbridge and container
// engine backends: the ContainerEngine and Container interfaces, the
// option structs their operations accept, and the typed values shared by
// backends and callers.
//
// The package deliberately depends on the standard library alone so that
// alternative backends can implement the contract without inheriting the
// CLI backend's dependencies.
package engine
