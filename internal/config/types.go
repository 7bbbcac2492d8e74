// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	// ErrInvalidExecutable is the sentinel error wrapped by
	// InvalidExecutableError.
	ErrInvalidExecutable = errors.New("invalid engine executable")

	// ErrInvalidReadTimeout is the sentinel error wrapped by
	// InvalidReadTimeoutError.
	ErrInvalidReadTimeout = errors.New("invalid read timeout")

	// ErrInvalidCredentials is the sentinel error wrapped by
	// InvalidCredentialsError.
	ErrInvalidCredentials = errors.New("invalid registry credentials")
)

type (
	// Config is the loaded podbridge configuration.
	Config struct {
		// Executable is the engine CLI to drive. The zero value means
		// the built-in default.
		Executable string `mapstructure:"executable"`

		// DefaultTransport prefixes push destinations that do not name a
		// transport themselves.
		DefaultTransport string `mapstructure:"default_transport"`

		// LogLevel is forwarded to the engine CLI's run command when set.
		LogLevel string `mapstructure:"log_level"`

		// ReadTimeout bounds each wait for engine output before exit and
		// cancellation are checked.
		ReadTimeout time.Duration `mapstructure:"read_timeout"`

		// CredentialsFile points to a separate TOML file holding registry
		// credentials for push.
		CredentialsFile string `mapstructure:"credentials_file"`
	}

	// Credentials authenticate against an image registry. Username and
	// password are required; an empty registry means the engine's
	// default.
	Credentials struct {
		Registry string `toml:"registry"`
		Username string `toml:"username"`
		Password string `toml:"password"`
	}

	// InvalidExecutableError is returned when the configured executable
	// is whitespace-only. The empty value is valid and means "use the
	// built-in default".
	InvalidExecutableError struct {
		Value string
	}

	// InvalidReadTimeoutError is returned when the configured read
	// timeout is negative.
	InvalidReadTimeoutError struct {
		Value time.Duration
	}

	// InvalidCredentialsError is returned when a credentials file is
	// missing required fields.
	InvalidCredentialsError struct {
		Path    string
		Missing []string
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Executable:       engine.DefaultExecutable,
		DefaultTransport: engine.DefaultTransport,
		ReadTimeout:      time.Second,
	}
}

// Validate returns an error if any configuration value is unusable.
func (c *Config) Validate() error {
	if c.Executable != "" && strings.TrimSpace(c.Executable) == "" {
		return &InvalidExecutableError{Value: c.Executable}
	}
	if c.ReadTimeout < 0 {
		return &InvalidReadTimeoutError{Value: c.ReadTimeout}
	}
	return nil
}

// EngineConfig converts the loaded configuration into the engine's
// runtime form, reading the credentials file when one is named.
func (c *Config) EngineConfig() (engine.Config, error) {
	if err := c.Validate(); err != nil {
		return engine.Config{}, err
	}

	cfg := engine.Config{
		Executable:       c.Executable,
		DefaultTransport: c.DefaultTransport,
		LogLevel:         c.LogLevel,
		ReadTimeout:      c.ReadTimeout,
	}
	if c.CredentialsFile != "" {
		creds, err := LoadCredentials(c.CredentialsFile)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Credentials = &engine.RegistryCredentials{
			Registry: creds.Registry,
			Username: creds.Username,
			Password: creds.Password,
		}
	}
	return cfg, nil
}

// LoadCredentials reads and validates a registry credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	var missing []string
	if strings.TrimSpace(creds.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(creds.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, &InvalidCredentialsError{Path: path, Missing: missing}
	}
	return &creds, nil
}

// Error implements the error interface.
func (e *InvalidExecutableError) Error() string {
	return fmt.Sprintf("invalid engine executable %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidExecutable for errors.Is() compatibility.
func (e *InvalidExecutableError) Unwrap() error {
	return ErrInvalidExecutable
}

// Error implements the error interface.
func (e *InvalidReadTimeoutError) Error() string {
	return fmt.Sprintf("invalid read timeout %s: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidReadTimeout for errors.Is() compatibility.
func (e *InvalidReadTimeoutError) Unwrap() error {
	return ErrInvalidReadTimeout
}

// Error implements the error interface.
func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid registry credentials in %s: missing %s", e.Path, strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrInvalidCredentials for errors.Is() compatibility.
func (e *InvalidCredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}
