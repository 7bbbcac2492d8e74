// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Port Mapping Types ---

const (
	// PortProtocolTCP is the TCP protocol for port mappings.
	PortProtocolTCP PortProtocol = "tcp"
	// PortProtocolUDP is the UDP protocol for port mappings.
	PortProtocolUDP PortProtocol = "udp"
)

var (
	// ErrInvalidNetworkPort is the sentinel error wrapped by
	// InvalidNetworkPortError.
	ErrInvalidNetworkPort = errors.New("invalid network port")

	// ErrInvalidPortProtocol is the sentinel error wrapped by
	// InvalidPortProtocolError.
	ErrInvalidPortProtocol = errors.New("invalid port protocol")

	// ErrInvalidPortMapping is the sentinel error wrapped by
	// InvalidPortMappingError.
	ErrInvalidPortMapping = errors.New("invalid port mapping")
)

type (
	// NetworkPort represents a network port number (1-65535).
	NetworkPort uint16

	// PortProtocol represents the protocol of a port mapping. The empty
	// value means PortProtocolTCP.
	PortProtocol string

	// PortMapping maps a host port to a container port.
	PortMapping struct {
		HostPort      NetworkPort
		ContainerPort NetworkPort
		Protocol      PortProtocol
	}

	// InvalidNetworkPortError is returned when a port number is zero or
	// not parseable.
	InvalidNetworkPortError struct {
		Value string
	}

	// InvalidPortProtocolError is returned when a port protocol is not
	// tcp or udp.
	InvalidPortProtocolError struct {
		Value PortProtocol
	}

	// InvalidPortMappingError is returned when a port mapping string is
	// not of the form "host:container" or "host:container/protocol".
	InvalidPortMappingError struct {
		Value string
	}
)

// String returns the string representation of the NetworkPort.
func (p NetworkPort) String() string {
	return strconv.Itoa(int(p))
}

// Validate returns an error if the NetworkPort is zero.
func (p NetworkPort) Validate() error {
	if p == 0 {
		return &InvalidNetworkPortError{Value: "0"}
	}
	return nil
}

// Validate returns an error if the PortProtocol is not one of the defined
// protocols. The empty protocol is valid and means TCP.
func (p PortProtocol) Validate() error {
	switch p {
	case "", PortProtocolTCP, PortProtocolUDP:
		return nil
	default:
		return &InvalidPortProtocolError{Value: p}
	}
}

// String returns the protocol name, resolving the empty value to tcp.
func (p PortProtocol) String() string {
	if p == "" {
		return string(PortProtocolTCP)
	}
	return string(p)
}

// Validate returns an error if any part of the PortMapping is invalid.
func (p PortMapping) Validate() error {
	if err := p.HostPort.Validate(); err != nil {
		return err
	}
	if err := p.ContainerPort.Validate(); err != nil {
		return err
	}
	return p.Protocol.Validate()
}

// String returns the canonical "host:container/protocol" form.
func (p PortMapping) String() string {
	return fmt.Sprintf("%s:%s/%s", p.HostPort, p.ContainerPort, p.Protocol)
}

// FormatPortMapping renders a mapping as an engine publish flag value:
// "host:container", with the protocol appended only when it is not TCP.
func FormatPortMapping(p PortMapping) string {
	if proto := p.Protocol.String(); proto != string(PortProtocolTCP) {
		return fmt.Sprintf("%s:%s/%s", p.HostPort, p.ContainerPort, proto)
	}
	return fmt.Sprintf("%s:%s", p.HostPort, p.ContainerPort)
}

// ParsePortMapping parses a "host:container" or "host:container/protocol"
// mapping string. A missing protocol means TCP.
func ParsePortMapping(s string) (PortMapping, error) {
	spec, protoStr, hasProto := strings.Cut(s, "/")
	hostStr, containerStr, ok := strings.Cut(spec, ":")
	if !ok {
		return PortMapping{}, &InvalidPortMappingError{Value: s}
	}
	host, err := parseNetworkPort(hostStr)
	if err != nil {
		return PortMapping{}, err
	}
	container, err := parseNetworkPort(containerStr)
	if err != nil {
		return PortMapping{}, err
	}
	mapping := PortMapping{HostPort: host, ContainerPort: container}
	if hasProto {
		mapping.Protocol = PortProtocol(protoStr)
	}
	if err := mapping.Validate(); err != nil {
		return PortMapping{}, err
	}
	return mapping, nil
}

func parseNetworkPort(s string) (NetworkPort, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 {
		return 0, &InvalidNetworkPortError{Value: s}
	}
	return NetworkPort(n), nil
}

// Error implements the error interface.
func (e *InvalidNetworkPortError) Error() string {
	return fmt.Sprintf("invalid network port %q: must be an integer between 1 and 65535", e.Value)
}

// Unwrap returns ErrInvalidNetworkPort for errors.Is() compatibility.
func (e *InvalidNetworkPortError) Unwrap() error {
	return ErrInvalidNetworkPort
}

// Error implements the error interface.
func (e *InvalidPortProtocolError) Error() string {
	return fmt.Sprintf("invalid port protocol %q (valid protocols: tcp, udp)", string(e.Value))
}

// Unwrap returns ErrInvalidPortProtocol for errors.Is() compatibility.
func (e *InvalidPortProtocolError) Unwrap() error {
	return ErrInvalidPortProtocol
}

// Error implements the error interface.
func (e *InvalidPortMappingError) Error() string {
	return fmt.Sprintf("invalid port mapping %q: expected host:container or host:container/protocol", e.Value)
}

// Unwrap returns ErrInvalidPortMapping for errors.Is() compatibility.
func (e *InvalidPortMappingError) Unwrap() error {
	return ErrInvalidPortMapping
}
