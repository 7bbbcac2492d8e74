// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// pushCmd uploads an image to the registry encoded in its spec.
var pushCmd = &cobra.Command{
	Use:   "push IMAGE",
	Short: "Push an image to its registry",
	Long: `Push an image to its registry.

The destination comes from the image spec itself: a spec that already
names a transport ("docker://registry.example.com/img:tag") is pushed
verbatim, anything else is normalized and prefixed with the default
transport. Credentials, when configured, are logged in before the
upload starts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		stream, err := eng.Push(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return drainStream(stream, os.Stdout)
	},
}
