package main

import (
	"fmt"

	"github.com/lixenwraith/layercfg"
	"github.com/spf13/cobra"
)

// newDumpCommand creates the dump subcommand
func newDumpCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump [key.path]",
		Short: "Print the merged configuration",
		Long: `Dump encodes the merged configuration tree, or the section at key.path,
with --format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}

			tree, err := cfg()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				section, ok := layercfg.Lookup(tree, splitPath(args[0])...)
				if !ok {
					return fmt.Errorf("key %q not found", args[0])
				}
				tree = section
			}

			return layercfg.Dump(cmd.OutOrStdout(), tree, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output encoding: toml, json or yaml")
	return cmd
}
