// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidVolumeMount is the sentinel error wrapped by
// InvalidVolumeMountError.
var ErrInvalidVolumeMount = errors.New("invalid volume mount")

type (
	// VolumeMount binds a host path into a container. It is part of the
	// engine contract even though not every backend supports it; backends
	// without volume support reject run options that carry mounts.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}

	// InvalidVolumeMountError is returned when a VolumeMount is missing a
	// path.
	InvalidVolumeMountError struct {
		Mount VolumeMount
	}
)

// Validate returns an error if either path of the VolumeMount is empty.
func (v VolumeMount) Validate() error {
	if v.HostPath == "" || v.ContainerPath == "" {
		return &InvalidVolumeMountError{Mount: v}
	}
	return nil
}

// String returns the "host:container[:ro]" form of the mount.
func (v VolumeMount) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// Error implements the error interface.
func (e *InvalidVolumeMountError) Error() string {
	return fmt.Sprintf("invalid volume mount %q: host and container paths must both be set", e.Mount.String())
}

// Unwrap returns ErrInvalidVolumeMount for errors.Is() compatibility.
func (e *InvalidVolumeMountError) Unwrap() error {
	return ErrInvalidVolumeMount
}
