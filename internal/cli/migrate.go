package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/store/pgstore"
)

// MigrateResult reports the schema version after a migrate command.
type MigrateResult struct {
	Action string `json:"action"`
	pgstore.MigrationStatus
}

func (r MigrateResult) String() string {
	if !r.Applied {
		return "No migrations have been applied yet."
	}
	state := "clean"
	if r.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("Schema version %d (%s).", r.Version, state)
}

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply, roll back or inspect the PostgreSQL schema migrations.
The database URL comes from store.database_url or $DRAWSYNC_DATABASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "up",
		Short:         "Apply all pending migrations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, "up", 0)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "down [steps]",
		Short:         "Roll back migrations (default 1 step)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return NewExitError(ExitCommandError, fmt.Sprintf("invalid steps value %q", args[0]))
				}
				steps = n
			}
			return runMigrate(rootOpts, cmd, "down", steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "status",
		Short:         "Show the current schema version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, "status", 0)
		},
	})

	return cmd
}

func runMigrate(opts *RootOptions, cmd *cobra.Command, action string, steps int) error {
	a, err := newApp(opts, cmd)
	if err != nil {
		return err
	}

	url := a.cfg.Store.DatabaseURL
	if url == "" {
		return NewExitError(ExitCommandError, "migrate needs store.database_url or $DRAWSYNC_DATABASE_URL")
	}

	switch action {
	case "up":
		err = pgstore.MigrateUp(url, a.log)
	case "down":
		err = pgstore.MigrateDown(url, steps, a.log)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "migration failed", err)
	}

	status, err := pgstore.MigrateStatus(url)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read migration status", err)
	}
	return a.out.Success(MigrateResult{Action: action, MigrationStatus: status})
}
