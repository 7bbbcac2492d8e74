// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// imagesCmd lists the tagged images known to the engine, one image per
// line: the primary tag followed by its aliases.
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List tagged images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		images, err := eng.Images(cmd.Context())
		if err != nil {
			return err
		}

		if len(images) == 0 {
			fmt.Println(SubtitleStyle.Render("(no tagged images)"))
			return nil
		}

		for _, img := range images {
			if aliases := img.Tags[1:]; len(aliases) > 0 {
				fmt.Printf("%s %s\n", CmdStyle.Render(img.Tags[0]), SubtitleStyle.Render(strings.Join(aliases, " ")))
			} else {
				fmt.Println(CmdStyle.Render(img.Tags[0]))
			}
		}
		return nil
	},
}
