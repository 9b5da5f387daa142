package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rangeguard.dev/pkg/rangeguard/internal/domain"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report]",
		Short: "View a previously saved run report",
		Long:  "View a YAML run report written by fix --report. Defaults to report.path from the config.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath := m.Path(viper.GetString(reportPathConfigKey))
			if len(args) == 1 {
				reportPath = m.Path(args[0])
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{Report: reportPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
