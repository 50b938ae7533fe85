package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/delta"
)

// CheckResult is the outcome of a boundary check.
type CheckResult struct {
	Local           string `json:"local"`
	Remote          string `json:"remote"`
	UpdateAvailable bool   `json:"update_available"`
}

func (r CheckResult) String() string {
	if r.UpdateAvailable {
		return fmt.Sprintf("New draws available: local %s, remote %s.", r.Local, r.Remote)
	}
	return fmt.Sprintf("Up to date: local %s, remote %s.", r.Local, r.Remote)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the source has newer draws",
		Long: `Compare the newest stored draw with the newest remote draw without
fetching or writing anything. Only the first history page is requested.

Exit codes:
  0 - Check completed
  2 - Command error
  3 - Draw source unreachable`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	a, err := newApp(opts, cmd)
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

	existing, err := st.ReadExisting(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read stored draws", err)
	}

	decision, err := a.checker(0).Resolve(ctx, existing.Newest())
	if err != nil {
		return exitErrorFor(delta.Status{Kind: delta.Unreachable, Reason: err})
	}

	return a.out.Success(CheckResult{
		Local:           string(decision.Local),
		Remote:          string(decision.Remote),
		UpdateAvailable: decision.UpdateAvailable,
	})
}
