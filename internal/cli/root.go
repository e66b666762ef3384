package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seenkeeper/internal"
	"seenkeeper/internal/di"
	"seenkeeper/internal/structures"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Debug      bool
	Format     string // "text" | "json" | "yaml"

	load func(flags *structures.CliFlags) (*internal.App, error)
}

var ValidFormats = []string{"text", "json", "yaml"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{load: di.InitApp}

	cmd := &cobra.Command{
		Use:           "seenkeeper",
		Short:         "SeenKeeper - remembers the marketplace listings you have already seen",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", false, "debug logging to the console")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewItemsCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewPremiumCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openApp builds the application and runs storage initialization. The caller
// must Close the returned app.
func (o *RootOptions) openApp(cmd *cobra.Command) (*internal.App, error) {
	app, err := o.load(&structures.CliFlags{ConfigPath: o.ConfigPath, DebugMode: o.Debug})
	if err != nil {
		return nil, err
	}
	app.Initialize(cmd.Context())
	return app, nil
}

func (o *RootOptions) printer(cmd *cobra.Command) *Printer {
	return &Printer{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Serve(cmd.Context())
		},
	}
}
