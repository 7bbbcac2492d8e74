// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	runEnv        []string
	runPublish    []string
	runPublishAll bool
	runAutoRemove bool
)

// runCmd starts a detached container and prints its id.
var runCmd = &cobra.Command{
	Use:   "run IMAGE [COMMAND...]",
	Short: "Run a detached container from an image",
	Long: `Run a detached container from an image.

The container always starts detached; the id is printed so the other
container commands (logs, stop, kill, wait, rm) can address it. Any
arguments after the image override the image's default command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := engine.RunOptions{
			Command:    args[1:],
			Env:        runEnv,
			PublishAll: runPublishAll,
			AutoRemove: runAutoRemove,
		}
		for _, spec := range runPublish {
			mapping, err := engine.ParsePortMapping(spec)
			if err != nil {
				return err
			}
			opts.Ports = append(opts.Ports, mapping)
		}

		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ctr, err := eng.Run(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		fmt.Println(ctr.ID())
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runEnv, "env", "e", nil, "environment entry as KEY=VALUE (repeatable)")
	runCmd.Flags().StringArrayVarP(&runPublish, "publish", "p", nil, "publish a port as host:container[/protocol] (repeatable)")
	runCmd.Flags().BoolVarP(&runPublishAll, "publish-all", "P", false, "publish all exposed ports on random host ports")
	runCmd.Flags().BoolVar(&runAutoRemove, "rm", false, "remove the container as soon as it exits")
}
