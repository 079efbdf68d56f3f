// Package cli implements the tsqlmod command surface.
//
// Every command defaults to the safe side: preview is the no-commit scan,
// apply refuses to write without --commit, and cleanup refuses to purge
// journal history without --confirm.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigPath string // optional YAML config file
	Journal    string // SQLite journal path
	DSN        string // definition-store DSN (SQL Server)
	FromDir    string // file mode: directory of .sql units
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tsqlmod CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tsqlmod",
		Short: "Modernize legacy T-SQL stored procedures",
		Long: `tsqlmod rewrites legacy RAISERROR statements and deprecated T-SQL syntax
into their modern equivalents, with a versioned backup journal so every
committed change can be rolled back.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "", "path to SQLite backup journal (default tsqlmod.db)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "definition store DSN (sqlserver://...)")
	cmd.PersistentFlags().StringVar(&opts.FromDir, "from-dir", "", "file mode: rewrite .sql files from a directory instead of a server")

	cmd.AddCommand(NewPreviewCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewRollbackCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewCleanupCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
