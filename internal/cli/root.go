package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worm-world/worm-world-sub000/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	viper *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the wormdb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: config.New()}

	cmd := &cobra.Command{
		Use:   "wormdb",
		Short: "wormdb - worm genetics records",
		Long: `Query and import the C. elegans records database: genes, alleles,
phenotypes, allele expressions, strains and breeding tasks.

Settings come from --config, WORMDB_* environment variables and flags.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return config.BindFlags(opts.viper, cmd.Flags())
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	pf.String("db", "", "path to SQLite database")
	pf.String("driver", "", "SQLite driver (sqlite3|sqlite)")
	pf.Int("bind-limit", 0, "maximum bound parameters per statement")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (json|console)")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
