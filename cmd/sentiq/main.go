package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newthinker/sentiq/internal/app"
	"github.com/newthinker/sentiq/internal/config"
	"github.com/newthinker/sentiq/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile       string
	debug         bool
	sentimentPath string
	tradesPath    string
	outputPath    string
)

var rootCmd = &cobra.Command{
	Use:   "sentiq",
	Short: "SENTIQ - crypto sentiment vs trader performance analysis",
	Long: `SENTIQ joins the Bitcoin Fear & Greed index with a trader execution ledger,
measures how trader performance moves with market sentiment, and backtests
sentiment-driven position sizing strategies.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
	rootCmd.PersistentFlags().StringVar(&sentimentPath, "sentiment", "", "fear/greed index CSV (overrides data.sentiment_path)")
	rootCmd.PersistentFlags().StringVar(&tradesPath, "trades", "", "trade ledger CSV (overrides data.trades_path)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "local output directory (overrides output.path)")
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if sentimentPath != "" {
		cfg.Data.SentimentPath = sentimentPath
	}
	if tradesPath != "" {
		cfg.Data.TradesPath = tradesPath
	}
	if outputPath != "" {
		cfg.Output.Type = "localfs"
		cfg.Output.Path = outputPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// runStage builds the app, runs one pipeline stage and writes the run manifest
func runStage(command string, stage func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Development: debug, Level: level})
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("run started", zap.String("command", command), zap.String("run_id", a.RunID()))
	if err := stage(ctx, a); err != nil {
		log.Error("run failed", zap.String("command", command), zap.Error(err))
		return err
	}
	return a.Finish(ctx, command)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
