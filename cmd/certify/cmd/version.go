package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	printf(cmd.OutOrStdout(), `certify
Version:    %s
Build Time: %s
Git Commit: %s
Go Version: %s
OS/Arch:    %s/%s
`,
		Version,
		BuildTime,
		CommitSHA,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
