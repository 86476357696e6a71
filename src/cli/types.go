package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

func newConvCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "conv <op> <type> <type>",
		Short: "Result type of a binary operator",
		Long: `Applies the usual arithmetic conversions, pointer arithmetic and
comparison rules to two operand types.

Examples:
  cdom conv + "unsigned int" long
  cdom conv - "char *" "char *"
  cdom --platform ilp32 conv + "unsigned int" long`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			operands, err := opts.parseTypes(args[1], args[2])
			if err != nil {
				return err
			}
			platform, err := opts.conf.TargetPlatform()
			if err != nil {
				return err
			}
			res, err := types.NewTypeRulesManager(platform).BinaryOpType(args[0], operands[0], operands[1])
			if err != nil {
				return err
			}
			opts.logger.Debug("conversion",
				slog.String("op", args[0]),
				slog.String("lhs", operands[0].HumanReadableName()),
				slog.String("rhs", operands[1].HumanReadableName()))
			fmt.Fprintln(cmd.OutOrStdout(), res.HumanReadableName())
			return nil
		},
	}
}

func newDecayCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decay <type>...",
		Short: "Array to pointer and function to pointer conversion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.parseTypes(args...)
			if err != nil {
				return err
			}
			for _, t := range ts {
				fmt.Fprintln(cmd.OutOrStdout(), types.Decay(t).HumanReadableName())
			}
			return nil
		},
	}
}

func newSizeofCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sizeof <type>...",
		Short: "Size and alignment in bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.parseTypes(args...)
			if err != nil {
				return err
			}
			platform, err := opts.conf.TargetPlatform()
			if err != nil {
				return err
			}
			for _, t := range ts {
				size := platform.SizeOf(t)
				if size < 0 {
					return fmt.Errorf("%s is incomplete", t.HumanReadableName())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\n", t.HumanReadableName(), size, platform.AlignOf(t))
			}
			return nil
		},
	}
}
