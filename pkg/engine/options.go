// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"io"
)

var (
	// ErrNoBuildContext is returned when BuildOptions names neither a
	// context directory nor a tar stream.
	ErrNoBuildContext = errors.New("build requires a context path or a tar stream")

	// ErrConflictingBuildContext is returned when BuildOptions names both
	// a context directory and a tar stream.
	ErrConflictingBuildContext = errors.New("build accepts a context path or a tar stream, not both")
)

type (
	// BuildOptions configures ContainerEngine.Build. Exactly one of Path
	// and TarStream must be set.
	BuildOptions struct {
		// Path is the build context directory.
		Path string

		// TarStream is a tar archive holding the build context. It is
		// extracted to a temporary directory that is removed once the
		// build stream is exhausted or closed.
		TarStream io.Reader

		// Tag is applied to the built image when set.
		Tag string

		// Dockerfile names the build file within the context when it is
		// not the default.
		Dockerfile string

		// Platform selects the target platform, for example
		// "linux/amd64".
		Platform string

		// BuildArgs are forwarded as --build-arg KEY=VALUE flags, in
		// sorted key order.
		BuildArgs map[string]string

		// Labels are applied to the built image, in sorted key order.
		Labels map[string]string

		// CacheFrom lists images to reuse cached layers from.
		CacheFrom []string

		// Limits constrain the resources available to the build.
		Limits ResourceLimits
	}

	// ResourceLimits carry engine-format resource strings, passed through
	// to the CLI verbatim.
	ResourceLimits struct {
		// CPUSetCPUs pins execution to specific CPUs, for example "0-2".
		CPUSetCPUs string

		// CPUShares weights CPU time against other workloads.
		CPUShares string

		// Memory caps memory usage, for example "512m".
		Memory string

		// MemorySwap caps memory plus swap usage, "-1" for unlimited
		// swap.
		MemorySwap string
	}

	// RunOptions configures ContainerEngine.Run. Containers always start
	// detached.
	RunOptions struct {
		// Command overrides the image's default command when non-empty.
		Command []string

		// Env holds additional environment entries in KEY=VALUE form.
		Env []string

		// Ports publishes individual container ports on the host.
		Ports []PortMapping

		// PublishAll publishes every exposed port on a random host port.
		PublishAll bool

		// Volumes binds host paths into the container. Backends without
		// volume support reject options carrying mounts.
		Volumes []VolumeMount

		// AutoRemove deletes the container as soon as it exits. The
		// handle returned by Run races against that removal; state reads
		// on an already removed container fail.
		AutoRemove bool
	}

	// LogsOptions configures Container.Logs and Container.StreamLogs.
	LogsOptions struct {
		// Timestamps prefixes every line with its RFC 3339 timestamp.
		Timestamps bool

		// Since restricts output to lines after a duration ("10m") or an
		// RFC 3339 time.
		Since string
	}
)

// Validate returns an error unless exactly one build context source is
// set.
func (o BuildOptions) Validate() error {
	switch {
	case o.Path == "" && o.TarStream == nil:
		return ErrNoBuildContext
	case o.Path != "" && o.TarStream != nil:
		return ErrConflictingBuildContext
	default:
		return nil
	}
}

// Validate returns an error if any port mapping or volume mount is
// invalid.
func (o RunOptions) Validate() error {
	for _, p := range o.Ports {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
