// SPDX-License-Identifier: MPL-2.0

package engine

type (
	// Image describes a container image known to the engine.
	Image struct {
		// Tags are the image's repository tags. Tags carrying a
		// "localhost/" prefix are accompanied by their bare alias so
		// locally built images can be found under the name they were
		// built with.
		Tags []string

		// Config is the image's runtime configuration. Populated by
		// ContainerEngine.InspectImage; image listings leave it empty.
		Config ImageConfig
	}

	// ImageConfig is the subset of an image's runtime configuration that
	// callers consume.
	ImageConfig struct {
		// WorkingDir is the directory processes start in. Inspection
		// never reports it empty: images without one fall back to "/".
		WorkingDir string

		// User is the user processes run as, empty when the image does
		// not set one.
		User string

		// Env holds the image's environment in KEY=VALUE form.
		Env []string

		// Entrypoint is the image's entrypoint vector.
		Entrypoint []string

		// Cmd is the image's default command vector.
		Cmd []string

		// Labels holds the image's labels.
		Labels map[string]string
	}
)
