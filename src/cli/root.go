package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eclipse-cdt/cdt-sub043/src/config"
	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
	types "github.com/eclipse-cdt/cdt-sub043/src/typesystem"
)

// options is shared by every subcommand, filled before any of them runs.
type options struct {
	configPath string
	platform   string
	verbose    bool

	conf   config.Config
	logger *slog.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "cdom",
		Short: "Inspect the C type model of the AST core",
		Long: `cdom exposes the type and conversion engine of the C AST core.

Commands:
  conv      result type of a binary operator
  decay     array and function to pointer conversion
  sizeof    size and alignment on the configured platform
  builtins  GCC builtin symbols known to name resolution
  config    effective configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file, yaml or toml")
	root.PersistentFlags().StringVar(&opts.platform, "platform", "", "data model overriding the config file (lp64, ilp32, llp64)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newConvCommand(opts),
		newDecayCommand(opts),
		newSizeofCommand(opts),
		newBuiltinsCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) load(cmd *cobra.Command) error {
	o.conf = config.Default()
	if o.configPath != "" {
		conf, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.conf = conf
	}
	if o.platform != "" {
		o.conf.Platform = o.platform
	}
	if o.verbose {
		o.conf.Logging.Level = "debug"
	}
	if err := o.conf.Validate(); err != nil {
		return err
	}
	logger, err := o.conf.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.logger = logger
	o.logger.Debug("configuration loaded", slog.String("platform", o.conf.Platform), slog.String("file", o.configPath))
	return nil
}

// builtins returns the builtin table in effect, nil without GNU extensions.
func (o *options) builtins() (*semantics.Builtins, error) {
	if !o.conf.GNUExtensions {
		return nil, nil
	}
	b, err := o.conf.LoadBuiltins()
	if err != nil || b != nil {
		return b, err
	}
	return semantics.DefaultBuiltins()
}

// parseTypes parses C type names, builtin typedefs included.
func (o *options) parseTypes(specs ...string) ([]types.Ctype, error) {
	typedefs := map[string]types.Ctype{}
	b, err := o.builtins()
	if err != nil {
		return nil, err
	}
	if b != nil {
		for _, name := range b.Names() {
			if t, ok := b.Typedef(name); ok {
				typedefs[name] = t
			}
		}
	}
	res := make([]types.Ctype, 0, len(specs))
	for _, spec := range specs {
		t, err := types.ParseTypeSpec(spec, typedefs)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", spec, err)
		}
		res = append(res, t)
	}
	return res, nil
}
