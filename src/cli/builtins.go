package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBuiltinsCommand(opts *options) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "builtins",
		Short: "List the GCC builtin symbols",
		Long: `Lists the typedefs and functions that name resolution provides when
GNU extensions are enabled, with their types.

Examples:
  cdom builtins
  cdom builtins --prefix __builtin_nan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.builtins()
			if err != nil {
				return err
			}
			if b == nil {
				return errors.New("GNU extensions are disabled")
			}
			out := cmd.OutOrStdout()
			for _, name := range b.Names() {
				if !strings.HasPrefix(name, prefix) {
					continue
				}
				if t, ok := b.Typedef(name); ok {
					fmt.Fprintf(out, "typedef\t%s\t%s\n", name, t.HumanReadableName())
					continue
				}
				ft, _ := b.Function(name)
				fmt.Fprintf(out, "function\t%s\t%s\n", name, ft.HumanReadableName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only names starting with prefix")
	return cmd
}
