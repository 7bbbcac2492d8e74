// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "podbridge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix prefixes the environment variables that override
	// configuration keys, e.g. PODBRIDGE_EXECUTABLE.
	EnvPrefix = "PODBRIDGE"
)

// ConfigDir returns the podbridge configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration. With an explicit path the file must
// exist; without one the loader tries ConfigDir() and then the current
// directory, and a missing file just means defaults. Environment
// variables prefixed with EnvPrefix override file values either way.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("executable", defaults.Executable)
	v.SetDefault("default_transport", defaults.DefaultTransport)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("read_timeout", defaults.ReadTimeout)
	v.SetDefault("credentials_file", defaults.CredentialsFile)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if err := readConfigFile(v, path); err != nil {
			return nil, err
		}
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		candidates := []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		}
		for _, candidate := range candidates {
			if !fileExists(candidate) {
				continue
			}
			if err := readConfigFile(v, candidate); err != nil {
				return nil, err
			}
			break
		}
		// If no config file found, use defaults (no error)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
