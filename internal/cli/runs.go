package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/delta"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit int
}

// RunsResult lists journal entries, most recent first.
type RunsResult struct {
	Runs []delta.Run `json:"runs"`
}

func (r RunsResult) String() string {
	if len(r.Runs) == 0 {
		return "No runs recorded."
	}
	lines := make([]string, 0, len(r.Runs))
	for _, run := range r.Runs {
		line := fmt.Sprintf("%s  %s  %-15s  +%d  total %d",
			run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.Status, run.Fetched, run.Total)
		if run.Error != "" {
			line += "  error: " + run.Error
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent synchronization runs",
		Long: `List the run journal, most recent first. Only the sqlite and postgres
drivers keep a journal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of runs to show")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	lister, ok := st.(runLister)
	if !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("store driver %q does not keep a run journal", a.cfg.Store.Driver))
	}

	runs, err := lister.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if runs == nil {
		runs = []delta.Run{}
	}
	return a.out.Success(RunsResult{Runs: runs})
}
