package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rangeguard.dev/pkg/rangeguard/internal/domain"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

var fixParallelFlag int
var fixDryRunFlag bool
var fixReportFlag string

// fixCmd represents the fix command.
var fixCmd = newFixCmd()

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite argument guards into helper calls",
		Long:  fixLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Fix(cmd.Context(), domain.FixArgs{
				ListArgs: listArgs(args),
				DryRun:   fixDryRunFlag,
				Report:   m.Path(viper.GetString(reportPathConfigKey)),
			})
		},
	}

	configureFixFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func configureFixFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&fixParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files rewritten in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVar(&fixReportFlag, reportFlagName, viper.GetString(reportPathConfigKey), "write a YAML run report to this path")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportPathConfigKey)

	cmd.Flags().BoolVar(&fixDryRunFlag, dryRunFlagName, false, "print unified diffs instead of writing files")
}
