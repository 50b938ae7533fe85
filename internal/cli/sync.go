package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/delta"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	PageCap int
}

// SyncResult is the outcome of one sync run.
type SyncResult struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Added   int    `json:"added"`
	Total   int    `json:"total"`
	Written bool   `json:"written"`
	Local   string `json:"local"`
	Remote  string `json:"remote,omitempty"`
	Newest  string `json:"newest,omitempty"`
	Oldest  string `json:"oldest_added,omitempty"`
	Pages   int    `json:"pages"`
	Stop    string `json:"stop,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func newSyncResult(r *delta.Report) SyncResult {
	res := SyncResult{
		RunID:   r.RunID,
		Status:  r.Status.Kind.String(),
		Added:   len(r.Added),
		Total:   r.Total,
		Written: r.Written,
		Local:   string(r.Status.Local),
		Remote:  string(r.Status.Remote),
		Pages:   r.Status.Pages,
		Stop:    string(r.Status.Stop),
		Reason:  r.Status.ReasonText(),
	}
	if n := len(r.Added); n > 0 {
		res.Newest = string(r.Added[0].DrawID)
		res.Oldest = string(r.Added[n-1].DrawID)
	}
	return res
}

func (r SyncResult) String() string {
	switch r.Status {
	case delta.UpToDate.String():
		return fmt.Sprintf("Data is already up to date (newest draw %s).", r.Local)
	case delta.Updated.String():
		if r.Added == 0 {
			return "No new data found."
		}
		return fmt.Sprintf("Found %d new draws, newest %s. %d draws stored.", r.Added, r.Newest, r.Total)
	case delta.PartialFailure.String():
		msg := fmt.Sprintf("Fetched %d new draws before the source failed: %s", r.Added, r.Reason)
		if r.Written {
			return msg + fmt.Sprintf("\nSaved %d draws; draws between %s and %s may be missing.", r.Total, r.Local, r.Oldest)
		}
		return msg + "\nNothing was saved."
	case delta.Unreachable.String():
		return fmt.Sprintf("Could not reach the draw source: %s", r.Reason)
	default:
		return r.Status
	}
}

// exitErrorFor maps a source outcome to the command's exit code.
func exitErrorFor(st delta.Status) error {
	switch st.Kind {
	case delta.Unreachable:
		return WrapExitError(ExitUnreachable, "draw source unreachable", st.Reason)
	case delta.PartialFailure:
		return WrapExitError(ExitFailure, "delta fetch incomplete", st.Reason)
	default:
		return nil
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new draws and merge them into the store",
		Long: `Run one synchronization.

The newest remote draw is compared with the newest stored draw. When the
remote is newer, history pages are walked newest first until a stored draw
is reached, then the new draws are merged in front of the stored history.

Exit codes:
  0 - Store updated or already up to date
  1 - Some pages failed; earlier pages were kept (see sync.persist_partial)
  2 - Command error (bad config, store failure)
  3 - Draw source unreachable, nothing changed

Examples:
  drawsync sync
  drawsync sync --page-cap 5 --verbose
  drawsync sync --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.PageCap, "page-cap", 0, "maximum pages to request (default sync.page_cap)")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd, a.log)
	defer cancel()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	report, err := a.synchronizer(st, opts.PageCap).Sync(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "sync failed", err)
	}

	if err := a.out.Success(newSyncResult(report)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return exitErrorFor(report.Status)
}
