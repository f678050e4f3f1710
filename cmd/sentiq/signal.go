package main

import (
	"context"

	"github.com/newthinker/sentiq/internal/app"
	"github.com/spf13/cobra"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Print the current trading signal",
	Long:  "Derive position guidance and risk levels from the most recent day with both sentiment and trades",
	Args:  cobra.NoArgs,
	RunE:  runSignal,
}

func init() {
	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
	return runStage("signal", func(ctx context.Context, a *app.App) error {
		_, err := a.Signal(ctx)
		return err
	})
}
