package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=..." at release time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sentiq %s (%s)\n", Version, runtime.Version())
		fmt.Fprintf(out, "  commit:  %s\n", GitCommit)
		fmt.Fprintf(out, "  built:   %s\n", BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
