// SPDX-License-Identifier: MPL-2.0

// Package config handles podbridge configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/podbridge/config.toml (or XDG
// equivalent on Linux, ~/Library/Application Support/podbridge/config.toml
// on macOS, %APPDATA%\podbridge\config.toml on Windows), with a config.toml
// in the working directory as a fallback. PODBRIDGE_* environment variables
// override file values. Registry credentials live in their own TOML file,
// referenced from the main configuration, so the password never sits next
// to settings that get shared around.
package config
