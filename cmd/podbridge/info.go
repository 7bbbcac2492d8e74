// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infoCmd probes the engine and prints its environment report.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the engine's environment report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		report, err := eng.Info(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Print(report)
		return nil
	},
}
