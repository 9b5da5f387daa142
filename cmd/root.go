// Package cmd provides the root command and CLI setup for rangeguard.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rangeguard.dev/pkg/rangeguard/internal/adapter"
	"rangeguard.dev/pkg/rangeguard/internal/controller"
	"rangeguard.dev/pkg/rangeguard/internal/domain"
	m "rangeguard.dev/pkg/rangeguard/internal/model"
)

var csharpAdapter adapter.CSharpFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var rewriter domain.Rewriter
var workflow domain.Workflow
var ui controller.UI

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var exceptionFlag string
var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	csharpAdapter = adapter.NewTreeSitterCSharpAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	rewriter = domain.NewRewriter(csharpAdapter, fsAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		rewriter,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src ./lib    scan multiple directories (not recursive)
  - ./src/Foo.cs   process a single file`

const rootLongDescription = `Rangeguard rewrites hand-written C# argument guards such as

    if (count < 0) throw new ArgumentOutOfRangeException(nameof(count));

into calls to the ArgumentOutOfRangeException.ThrowIf helpers.

` + pathPatternsHelp

const fixLongDescription = `Rewrite argument guards in place for the given paths (default: ./...).

Files containing "a < 0 || b < 0" guards are split first; run fix again to
turn the split guards into helper calls.

` + pathPatternsHelp

const listLongDescription = `List the guards that fix would rewrite, without touching any file.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rangeguard",
		Short: "C# argument guard rewriter",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&exceptionFlag, exceptionFlagName, viper.GetString(exceptionConfigKey), "exception type whose guards are rewritten")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(exceptionFlagName), exceptionConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func listArgs(args []string) domain.ListArgs {
	return domain.ListArgs{
		Paths:   parsePaths(args),
		Exclude: viper.GetStringSlice(excludeConfigKey),
		Threads: viper.GetInt(runParallelConfigKey),
		Config:  rewriteConfig(),
	}
}
