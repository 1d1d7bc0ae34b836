package main

import (
	"fmt"

	"github.com/lixenwraith/layercfg"
	"github.com/spf13/cobra"
)

// newGetCommand creates the get subcommand
func newGetCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <key.path>",
		Short: "Print one value from the merged configuration",
		Long: `Get prints the value at a dot-separated key path. Scalars are printed
as-is; mappings and sequences are encoded with --format.

Example:
  layercfg get database.pool.max -r config.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}

			tree, err := cfg()
			if err != nil {
				return err
			}

			value, ok := layercfg.Lookup(tree, splitPath(args[0])...)
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}

			out := cmd.OutOrStdout()
			switch value.(type) {
			case map[string]any, []any:
				return layercfg.Dump(out, value, format)
			case nil:
				_, err = fmt.Fprintln(out, "null")
			default:
				_, err = fmt.Fprintln(out, value)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "encoding for mappings and sequences: toml, json or yaml")
	return cmd
}
