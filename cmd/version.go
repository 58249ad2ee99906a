package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Aliases: []string{"v"},
	Run:     runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Weave API")
	fmt.Fprintf(out, "Version:    %s\n", Version)
	fmt.Fprintf(out, "Commit:     %s\n", GitCommit)
	fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
}
