// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	logsFollow     bool
	logsTimestamps bool
	logsSince      string
)

// logsCmd prints a container's combined log output, optionally
// following it until the container exits.
var logsCmd = &cobra.Command{
	Use:   "logs CONTAINER",
	Short: "Show a container's log output",
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

		opts := engine.LogsOptions{Timestamps: logsTimestamps, Since: logsSince}
		if logsFollow {
			stream, err := ctr.StreamLogs(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return drainStream(stream, os.Stdout)
		}

		logs, err := ctr.Logs(cmd.Context(), opts)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(logs)
		return err
	},
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow output until the container exits")
	logsCmd.Flags().BoolVarP(&logsTimestamps, "timestamps", "t", false, "prefix each line with its timestamp")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "only lines after a duration (10m) or RFC 3339 time")
}
