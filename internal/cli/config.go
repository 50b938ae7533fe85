package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file and environment
overrides have been applied. The text form is valid YAML and can be used
as a starting config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			if a.out.Format == "json" {
				return a.out.Success(a.cfg)
			}
			data, err := a.cfg.Marshal()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to render config", err)
			}
			return a.out.Success(strings.TrimRight(string(data), "\n"))
		},
	}
	return cmd
}
