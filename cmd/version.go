package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const develVersion = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rangeguard version",
		Long:  "Print the rangeguard module version, the VCS revision it was built from and the Go toolchain version.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("rangeguard " + develVersion)
				return
			}

			for _, line := range versionLines(info) {
				cmd.Println(line)
			}
		},
	}
}

func versionLines(info *debug.BuildInfo) []string {
	version := info.Main.Version
	if version == "" {
		version = develVersion
	}

	lines := []string{"rangeguard " + version}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			lines = append(lines, "revision "+setting.Value)
		}
	}

	return append(lines, "go "+info.GoVersion)
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
