// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podbridge/podbridge/pkg/engine"
)

var (
	buildTag        string
	buildFile       string
	buildPlatform   string
	buildArgs       []string
	buildLabels     []string
	buildCacheFrom  []string
	buildCPUSetCPUs string
	buildCPUShares  string
	buildMemory     string
	buildMemorySwap string
)

// buildCmd builds an image from a context directory, or from a tar
// archive on stdin when the context is "-".
var buildCmd = &cobra.Command{
	Use:   "build CONTEXT",
	Short: "Build an image from a context directory or a tar on stdin",
	Long: `Build an image from a build context.

The context is a directory path, or "-" to read a tar archive of the
context from stdin. Build output is streamed as the engine produces it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := engine.BuildOptions{
			Tag:        buildTag,
			Dockerfile: buildFile,
			Platform:   buildPlatform,
			CacheFrom:  buildCacheFrom,
			Limits: engine.ResourceLimits{
				CPUSetCPUs: buildCPUSetCPUs,
				CPUShares:  buildCPUShares,
				Memory:     buildMemory,
				MemorySwap: buildMemorySwap,
			},
		}
		if args[0] == "-" {
			opts.TarStream = os.Stdin
		} else {
			opts.Path = args[0]
		}

		var err error
		if opts.BuildArgs, err = parseKeyValues(buildArgs); err != nil {
			return fmt.Errorf("invalid --build-arg: %w", err)
		}
		if opts.Labels, err = parseKeyValues(buildLabels); err != nil {
			return fmt.Errorf("invalid --label: %w", err)
		}

		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		stream, err := eng.Build(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return drainStream(stream, os.Stdout)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildTag, "tag", "t", "", "tag for the built image")
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "build file within the context (default is the engine's)")
	buildCmd.Flags().StringVar(&buildPlatform, "platform", "", "target platform, e.g. linux/amd64")
	buildCmd.Flags().StringArrayVar(&buildArgs, "build-arg", nil, "build argument as KEY=VALUE (repeatable)")
	buildCmd.Flags().StringArrayVar(&buildLabels, "label", nil, "image label as KEY=VALUE (repeatable)")
	buildCmd.Flags().StringSliceVar(&buildCacheFrom, "cache-from", nil, "images to reuse cached layers from")
	buildCmd.Flags().StringVar(&buildCPUSetCPUs, "cpuset-cpus", "", "CPUs to run the build on, e.g. 0-2")
	buildCmd.Flags().StringVar(&buildCPUShares, "cpu-shares", "", "CPU share weighting")
	buildCmd.Flags().StringVar(&buildMemory, "memory", "", "memory limit, e.g. 512m")
	buildCmd.Flags().StringVar(&buildMemorySwap, "memory-swap", "", "memory plus swap limit, -1 for unlimited swap")
}

// parseKeyValues splits KEY=VALUE entries into a map. Used for
// repeatable flag values that the engine wants keyed.
func parseKeyValues(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	kv := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%q is not of the form KEY=VALUE", entry)
		}
		kv[key] = value
	}
	return kv, nil
}
