package main

import (
	"context"

	"github.com/newthinker/sentiq/internal/app"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Correlate market sentiment with trader performance",
	Long:  "Merge sentiment and trades by day, then report correlations, per-category performance and key insights",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return runStage("analyze", func(ctx context.Context, a *app.App) error {
		_, err := a.Analyze(ctx)
		return err
	})
}
