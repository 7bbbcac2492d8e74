// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/podbridge/podbridge/internal/config"
	"github.com/podbridge/podbridge/internal/podman"
	"github.com/podbridge/podbridge/internal/proc"
	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging of every engine invocation
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// executableOverride replaces the configured engine executable
	executableOverride string
	// transportOverride replaces the configured default push transport
	transportOverride string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "podbridge",
		Short: "Drive a podman-compatible container engine",
		Long: TitleStyle.Render("podbridge") + SubtitleStyle.Render(" - drive a podman-compatible container engine") + `

podbridge wraps a container engine CLI (podman by default) behind typed
commands: build images from a directory or a tar stream, list and inspect
images, push them to registries, and run and follow detached containers.

` + SubtitleStyle.Render("Examples:") + `
  podbridge info                      Check that the engine responds
  podbridge build . --tag app:dev     Build the current directory
  podbridge run app:dev               Run a detached container
  podbridge logs --follow CONTAINER   Follow container output`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every engine invocation")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/podbridge/config.toml)")
	rootCmd.PersistentFlags().StringVar(&executableOverride, "executable", "", "engine executable to drive (overrides config)")
	rootCmd.PersistentFlags().StringVar(&transportOverride, "transport", "", "default push transport (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(waitCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		// A failed engine invocation exits with the engine's own code so
		// callers see the engine's distinguished codes (125 and friends)
		// instead of a flattened 1.
		if exitErr, ok := errors.AsType[*proc.ExitError](err); ok && exitErr.Code > 0 {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newLogger builds the engine logger: warnings and errors always, each
// engine invocation too when --verbose is set.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newEngine loads the configuration, applies flag overrides, and
// connects to the engine (which probes it with an info call).
func newEngine(ctx context.Context) (*podman.Engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if executableOverride != "" {
		cfg.Executable = executableOverride
	}
	if transportOverride != "" {
		cfg.DefaultTransport = transportOverride
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return podman.New(ctx, engineCfg, podman.WithLogger(newLogger()))
}

// drainStream copies stream lines to w as they arrive and reports the
// stream's terminal error. Lines keep their terminators, so nothing is
// added between them.
func drainStream(stream engine.LineStream, w io.Writer) error {
	defer func() { _ = stream.Close() }()

	for stream.Scan() {
		fmt.Fprint(w, stream.Text())
	}
	return stream.Err()
}
