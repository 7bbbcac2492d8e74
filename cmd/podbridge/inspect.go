// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// inspectCmd prints one image's tags and runtime configuration.
var inspectCmd = &cobra.Command{
	Use:   "inspect IMAGE",
	Short: "Show an image's tags and runtime configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		img, err := eng.InspectImage(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		keyStyle := CmdStyle
		valueStyle := SuccessStyle

		fmt.Println(TitleStyle.Render(args[0]))
		fmt.Println()

		fmt.Printf("%s: %s\n", keyStyle.Render("tags"), valueStyle.Render(strings.Join(img.Tags, ", ")))
		fmt.Printf("%s: %s\n", keyStyle.Render("working_dir"), valueStyle.Render(img.Config.WorkingDir))
		if img.Config.User != "" {
			fmt.Printf("%s: %s\n", keyStyle.Render("user"), valueStyle.Render(img.Config.User))
		}
		if len(img.Config.Entrypoint) > 0 {
			fmt.Printf("%s: %s\n", keyStyle.Render("entrypoint"), valueStyle.Render(strings.Join(img.Config.Entrypoint, " ")))
		}
		if len(img.Config.Cmd) > 0 {
			fmt.Printf("%s: %s\n", keyStyle.Render("cmd"), valueStyle.Render(strings.Join(img.Config.Cmd, " ")))
		}

		if len(img.Config.Env) > 0 {
			fmt.Println()
			fmt.Printf("%s:\n", keyStyle.Render("env"))
			for _, entry := range img.Config.Env {
				fmt.Printf("  %s\n", valueStyle.Render(entry))
			}
		}

		if len(img.Config.Labels) > 0 {
			fmt.Println()
			fmt.Printf("%s:\n", keyStyle.Render("labels"))
			keys := maps.Keys(img.Config.Labels)
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Printf("  %s=%s\n", valueStyle.Render(k), img.Config.Labels[k])
			}
		}
		return nil
	},
}
