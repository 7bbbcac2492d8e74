// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestConstants(t *testing.T) {
	if AppName != "podbridge" {
		t.Errorf("AppName = %s, want podbridge", AppName)
	}

	if ConfigFileName != "config" {
		t.Errorf("ConfigFileName = %s, want config", ConfigFileName)
	}

	if ConfigFileExt != "toml" {
		t.Errorf("ConfigFileExt = %s, want toml", ConfigFileExt)
	}

	if EnvPrefix != "PODBRIDGE" {
		t.Errorf("EnvPrefix = %s, want PODBRIDGE", EnvPrefix)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("exercises the XDG branch")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join("/tmp/test-xdg-config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}

	// With XDG_CONFIG_HOME empty the directory falls back to ~/.config.
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected = filepath.Join(home, ".config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDir_Override(t *testing.T) {
	// Use direct override instead of env vars (more reliable across platforms)
	SetConfigDirOverride("/custom/config/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	if dir != "/custom/config/dir" {
		t.Errorf("ConfigDir() = %s, want /custom/config/dir", dir)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	// Use a temp directory with no config file
	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	defer Reset()

	// Change to temp dir to avoid loading config from current directory
	t.Chdir(tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Executable != defaults.Executable {
		t.Errorf("Executable = %s, want %s", cfg.Executable, defaults.Executable)
	}

	if cfg.DefaultTransport != defaults.DefaultTransport {
		t.Errorf("DefaultTransport = %s, want %s", cfg.DefaultTransport, defaults.DefaultTransport)
	}

	if cfg.ReadTimeout != defaults.ReadTimeout {
		t.Errorf("ReadTimeout = %s, want %s", cfg.ReadTimeout, defaults.ReadTimeout)
	}
}

func TestLoad_ReadsTOMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	content := `executable = "docker"
default_transport = "containers-storage://"
log_level = "debug"
read_timeout = "1500ms"
credentials_file = "/etc/podbridge/creds.toml"
`
	cfgPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Use direct override instead of env vars (more reliable across platforms)
	SetConfigDirOverride(configDir)
	defer Reset()

	// Change to temp dir to avoid loading config from current directory
	t.Chdir(tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Executable != "docker" {
		t.Errorf("Executable = %s, want docker", cfg.Executable)
	}

	if cfg.DefaultTransport != "containers-storage://" {
		t.Errorf("DefaultTransport = %s, want containers-storage://", cfg.DefaultTransport)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}

	if cfg.ReadTimeout != 1500*time.Millisecond {
		t.Errorf("ReadTimeout = %s, want 1.5s", cfg.ReadTimeout)
	}

	if cfg.CredentialsFile != "/etc/podbridge/creds.toml" {
		t.Errorf("CredentialsFile = %q, want /etc/podbridge/creds.toml", cfg.CredentialsFile)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	tmpDir := t.TempDir()
	customPath := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(customPath, []byte(`executable = "nerdctl"`), 0o644); err != nil {
		t.Fatalf("failed to write custom config: %v", err)
	}

	cfg, err := Load(customPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Executable != "nerdctl" {
		t.Errorf("Executable = %s, want nerdctl", cfg.Executable)
	}

	// Keys absent from the file keep their defaults.
	if cfg.ReadTimeout != time.Second {
		t.Errorf("ReadTimeout = %s, want 1s", cfg.ReadTimeout)
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	nonExistentPath := "/this/path/does/not/exist/config.toml"

	_, err := Load(nonExistentPath)
	if err == nil {
		t.Fatal("expected Load() to return error for non-existent config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "config file not found") {
		t.Errorf("error should contain 'config file not found', got: %s", errStr)
	}

	if !strings.Contains(errStr, nonExistentPath) {
		t.Errorf("error should contain the path, got: %s", errStr)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "broken.toml")
	if err := os.WriteFile(cfgPath, []byte(`executable = [not valid toml`), 0o644); err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected Load() to return error for invalid config file")
	}

	if !strings.Contains(err.Error(), cfgPath) {
		t.Errorf("error should contain the path, got: %s", err.Error())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(`executable = "docker"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("PODBRIDGE_EXECUTABLE", "nerdctl")
	t.Setenv("PODBRIDGE_READ_TIMEOUT", "3s")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Executable != "nerdctl" {
		t.Errorf("Executable = %s, want nerdctl (env should win over file)", cfg.Executable)
	}

	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %s, want 3s", cfg.ReadTimeout)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(`executable = "   "`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(cfgPath)
	if !errors.Is(err, ErrInvalidExecutable) {
		t.Errorf("Load() error = %v, want ErrInvalidExecutable", err)
	}
}
