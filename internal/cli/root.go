package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Dias221467/HabitFlow/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config *config.Config
	Format string // "json" | "text"
	Driver string // overrides DB_DRIVER when set
	DSN    string // overrides DATABASE_URL when set
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the habitctl root command. Store settings default to
// cfg and can be overridden per invocation.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "habitctl",
		Short: "HabitFlow maintenance CLI",
		Long:  "Inspect and repair HabitFlow activity logs, notifications and schema.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver (mongo|sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "db", "", "SQL data source name")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewReverseCommand(opts))
	cmd.AddCommand(NewNotificationsCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))

	return cmd
}

// effectiveConfig applies the flag overrides to a copy of the loaded config.
func (o *RootOptions) effectiveConfig() *config.Config {
	cfg := *o.Config
	if o.Driver != "" {
		cfg.DBDriver = o.Driver
	}
	if o.DSN != "" {
		cfg.DatabaseURL = o.DSN
	}
	return &cfg
}
