// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	stopTimeout time.Duration
	killSignal  string
)

// rmCmd deletes a container.
var rmCmd = &cobra.Command{
	Use:   "rm CONTAINER",
	Short: "Remove a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ctr, err := eng.Container(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctr.Remove(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("%s Removed %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(ctr.ID()))
		return nil
	},
}

// stopCmd asks a container to shut down gracefully.
var stopCmd = &cobra.Command{
	Use:   "stop CONTAINER",
	Short: "Stop a container gracefully",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ctr, err := eng.Container(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctr.Stop(cmd.Context(), stopTimeout); err != nil {
			return err
		}

		fmt.Printf("%s Stopped %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(ctr.ID()))
		return nil
	},
}

// killCmd sends a signal to a container.
var killCmd = &cobra.Command{
	Use:   "kill CONTAINER",
	Short: "Send a signal to a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ctr, err := eng.Container(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctr.Kill(cmd.Context(), engine.Signal(killSignal)); err != nil {
			return err
		}

		fmt.Printf("%s Killed %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(ctr.ID()))
		return nil
	},
}

// waitCmd blocks until a container exits, then prints its exit code the
// way the engine's own wait does.
var waitCmd = &cobra.Command{
	Use:   "wait CONTAINER",
	Short: "Wait for a container to exit and print its exit code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ctr, err := eng.Container(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctr.Wait(cmd.Context()); err != nil {
			return err
		}
		if err := ctr.Reload(cmd.Context()); err != nil {
			return err
		}

		fmt.Println(ctr.ExitCode())
		return nil
	},
}

func init() {
	stopCmd.Flags().DurationVar(&stopTimeout, "time", 0, "how long to wait before the engine kills the container (default 10s)")
	killCmd.Flags().StringVar(&killSignal, "signal", "", "signal to send, by name or number (default KILL)")
}
