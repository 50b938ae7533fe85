package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Interval time.Duration
	Count    int
	PageCap  int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync repeatedly until interrupted",
		Long: `Run a sync immediately and then every interval until interrupted.

Source failures are reported and retried on the next tick. Store failures
stop the command.

Examples:
  drawsync watch
  drawsync watch --interval 15m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "time between runs (default sync.interval)")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "stop after this many runs (0 = until interrupted)")
	cmd.Flags().IntVar(&opts.PageCap, "page-cap", 0, "maximum pages to request (default sync.page_cap)")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = a.cfg.Sync.Interval
	}
	if interval <= 0 {
		return NewExitError(ExitCommandError, "watch needs a positive --interval or sync.interval")
	}

	ctx, cancel := signalContext(cmd, a.log)
	defer cancel()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	syncer := a.synchronizer(st, opts.PageCap)
	log := a.log.WithField("interval", interval)
	log.Info("watch started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		report, err := syncer.Sync(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "sync failed", err)
		}
		if err := a.out.Success(newSyncResult(report)); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		if exitErr := exitErrorFor(report.Status); exitErr != nil {
			log.WithError(exitErr).Warn("run incomplete, retrying on next tick")
		}

		if opts.Count > 0 && n >= opts.Count {
			return nil
		}

		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}
