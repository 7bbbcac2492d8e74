// SPDX-License-Identifier: MPL-2.0

// podbridge drives a podman-compatible container engine CLI: build,
// list, inspect, and push images, and run and follow detached
// containers.
package main

import (
	cmd "github.com/podbridge/podbridge/cmd/podbridge"
)

func main() {
	cmd.Execute()
}
