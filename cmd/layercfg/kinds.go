package main

import (
	"fmt"

	"github.com/lixenwraith/layercfg"
	"github.com/spf13/cobra"
)

// newKindsCommand creates the kinds subcommand
func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds that can be parsed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kind := range layercfg.DefaultRegistry().Kinds() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
