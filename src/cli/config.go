package cli

import (
	"github.com/spf13/cobra"

	"github.com/eclipse-cdt/cdt-sub043/src/config"
)

func newConfigCommand(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			return opts.conf.Encode(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format, toml or yaml")
	return cmd
}
