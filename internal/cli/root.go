package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/delta"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Now and RunIDs override the clock and run id generator (for testing).
	Now    func() time.Time
	RunIDs delta.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the drawsync CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts, so tests
// can inject a clock and run ids.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drawsync",
		Short: "drawsync - incremental 七星彩 draw history sync",
		Long: `Keep a local copy of the 七星彩 draw history up to date.

Each sync asks the remote source for its newest draw, and only when it is
newer than the local copy walks the history pages until it reaches draws
already stored. New draws are merged in front of the existing history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (default $DRAWSYNC_CONFIG)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

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
