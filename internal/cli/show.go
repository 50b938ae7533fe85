package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/draw"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Limit int
}

// ShowResult lists the newest stored draws.
type ShowResult struct {
	Total int           `json:"total"`
	Draws []draw.Record `json:"draws"`
}

func (r ShowResult) String() string {
	if len(r.Draws) == 0 {
		return "No draws stored yet."
	}
	lines := make([]string, 0, len(r.Draws)+2)
	lines = append(lines, "期号  开奖日期  号码")
	for _, d := range r.Draws {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", d.DrawID, d.DrawDate, d.Numbers.Joined()))
	}
	lines = append(lines, fmt.Sprintf("Showing %d of %d draws.", len(r.Draws), r.Total))
	return strings.Join(lines, "\n")
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the newest stored draws",
		Long: `Print the newest stored draws, newest first.

Examples:
  drawsync show
  drawsync show -n 30 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "number of draws to show")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	if opts.Limit < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be at least 1, got %d", opts.Limit))
	}

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

	draws, err := st.Latest(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read stored draws", err)
	}
	total, err := st.Count(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count stored draws", err)
	}
	if draws == nil {
		draws = []draw.Record{}
	}

	return a.out.Success(ShowResult{Total: total, Draws: draws})
}
