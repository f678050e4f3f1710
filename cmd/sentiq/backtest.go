package main

import (
	"context"

	"github.com/newthinker/sentiq/internal/app"
	"github.com/spf13/cobra"
)

var backtestStrategies []string

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest sentiment strategies",
	Long:  "Simulate the contrarian, momentum and risk parity strategies over the merged series, rank them by Sharpe ratio and print the current signal",
	Args:  cobra.NoArgs,
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringSliceVarP(&backtestStrategies, "strategy", "s", nil, "strategies to run, in order (overrides backtest.strategies)")
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	return runStage("backtest", func(ctx context.Context, a *app.App) error {
		if len(backtestStrategies) > 0 {
			a.SetStrategies(backtestStrategies)
		}
		_, err := a.Backtest(ctx)
		return err
	})
}
