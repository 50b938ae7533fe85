package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/store/workbook"
)

// ExportResult describes a written workbook.
type ExportResult struct {
	Path  string `json:"path"`
	Draws int    `json:"draws"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("Exported %d draws to %s.", r.Draws, r.Path)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the stored history to an xlsx workbook",
		Long: `Write every stored draw to an xlsx workbook, newest first, with the
columns 开奖日期, 期号 and 号码1 to 号码7.

Example:
  drawsync export ~/Documents/七星彩数据/qxc_history_data_full.xlsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runExport(opts *RootOptions, path string, cmd *cobra.Command) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewExitError(ExitCommandError, fmt.Sprintf("export target %q must end in .xlsx", path))
	}

	a, err := newApp(opts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	ds, err := st.ReadExisting(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read stored draws", err)
	}

	if err := workbook.New(path).WriteAll(ctx, ds.Records); err != nil {
		return WrapExitError(ExitCommandError, "failed to write workbook", err)
	}
	a.log.WithField("path", path).WithField("draws", ds.Len()).Debug("workbook exported")

	return a.out.Success(ExportResult{Path: path, Draws: ds.Len()})
}
