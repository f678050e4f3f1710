package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/newthinker/sentiq/internal/alert"
	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/backtest"
	"github.com/newthinker/sentiq/internal/config"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/dataset"
	"github.com/newthinker/sentiq/internal/metrics"
	"github.com/newthinker/sentiq/internal/prepare"
	"github.com/newthinker/sentiq/internal/report"
	"github.com/newthinker/sentiq/internal/signal"
	"github.com/newthinker/sentiq/internal/storage/artifact"
	"github.com/newthinker/sentiq/internal/strategy"
	"github.com/newthinker/sentiq/internal/strategy/contrarian"
	"github.com/newthinker/sentiq/internal/strategy/momentum"
	"github.com/newthinker/sentiq/internal/strategy/risk_parity"
	"go.uber.org/zap"
)

// Pipeline stage names, used for metrics and the run manifest
const (
	StagePrepare  = "prepare"
	StageAnalyze  = "analyze"
	StageBacktest = "backtest"
	StageSignal   = "signal"
)

// App is the main application orchestrator
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Registry
	strategies *strategy.Engine
	preparer   *prepare.Preparer
	backtester *backtest.Backtester
	publisher  *report.Publisher
	rules      []alert.Rule
	out        io.Writer
}

// Option customizes an App
type Option func(*App)

// WithOutput sets where console reports are printed (default os.Stdout)
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithStore replaces the artifact store built from the output config
func WithStore(s artifact.Store) Option {
	return func(a *App) { a.publisher = report.NewPublisher(s, a.logger) }
}

// AnalysisReport is the outcome of the analyze stage
type AnalysisReport struct {
	Days         []core.DailyRecord
	Insights     *analysis.Insights
	Correlations analysis.Matrix
}

// BacktestReport is the outcome of the backtest stage
type BacktestReport struct {
	Days    []core.DailyRecord
	Results []*backtest.Result
	Ranking backtest.Ranking
	Signal  *signal.Signal
	Alerts  []alert.Alert
}

// New creates a new App instance and registers the enabled strategies
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics.NewRegistry(),
		strategies: strategy.NewEngine(logger),
		preparer:   prepare.New(logger),
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.publisher == nil {
		store, err := artifact.New(artifact.Config{
			Type: cfg.Output.Type,
			Path: cfg.Output.Path,
			S3: artifact.S3Config{
				Bucket:    cfg.Output.S3.Bucket,
				Endpoint:  cfg.Output.S3.Endpoint,
				Region:    cfg.Output.S3.Region,
				AccessKey: cfg.Output.S3.AccessKey,
				SecretKey: cfg.Output.S3.SecretKey,
				Prefix:    cfg.Output.S3.Prefix,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("creating artifact store: %w", err)
		}
		a.publisher = report.NewPublisher(store, logger)
	}

	for _, s := range []strategy.Strategy{contrarian.New(), momentum.New(), risk_parity.New()} {
		if err := a.RegisterStrategy(s); err != nil {
			return nil, err
		}
	}
	a.backtester = backtest.New(a.strategies, logger, a.metrics)

	for _, r := range cfg.Alerts.Rules {
		rule := alert.Rule{Name: r.Name, Expr: r.Expr, Severity: r.Severity, Message: r.Message}
		if err := rule.Validate(); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		a.rules = append(a.rules, rule)
	}

	return a, nil
}

// RegisterStrategy initializes s from its config section and adds it to the
// engine. Disabled strategies are skipped.
func (a *App) RegisterStrategy(s strategy.Strategy) error {
	if !a.cfg.StrategyEnabled(s.Name()) {
		a.logger.Info("strategy disabled", zap.String("strategy", s.Name()))
		return nil
	}

	sc := a.cfg.Strategies[s.Name()]
	if err := s.Init(strategy.Config{Enabled: true, Params: sc.Params}); err != nil {
		return fmt.Errorf("initializing strategy %s: %w", s.Name(), err)
	}
	a.strategies.Register(s)
	return nil
}

// SetStrategies replaces the configured run order
func (a *App) SetStrategies(names []string) {
	a.cfg.Backtest.Strategies = names
}

// RunID returns the identifier artifacts of this run are stored under
func (a *App) RunID() string {
	return a.publisher.RunID()
}

// Metrics returns the metrics registry of this run
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Prepare loads both input files and builds the merged daily series
func (a *App) Prepare(ctx context.Context) ([]core.DailyRecord, error) {
	start := time.Now()
	defer func() { a.metrics.RecordStage(StagePrepare, time.Since(start).Seconds()) }()

	points, sstats, err := dataset.OpenSentiment(a.cfg.Data.SentimentPath)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordRows("sentiment", sstats.Rows-sstats.Skipped, sstats.Skipped)
	a.logger.Info("sentiment loaded",
		zap.String("path", a.cfg.Data.SentimentPath),
		zap.Int("points", len(points)),
		zap.Int("skipped", sstats.Skipped),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fills, tstats, err := dataset.OpenTrades(a.cfg.Data.TradesPath, a.cfg.Data.TradeTimeLayout)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordRows("trades", tstats.Rows-tstats.Skipped, tstats.Skipped)
	a.logger.Info("trades loaded",
		zap.String("path", a.cfg.Data.TradesPath),
		zap.Int("fills", len(fills)),
		zap.Int("coerced", tstats.Coerced),
	)

	days := a.preparer.Prepare(points, fills)
	a.metrics.SetDaysMerged(len(days))
	if len(days) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no date is present in both sentiment and trade data"))
	}
	return days, nil
}

// Analyze runs the correlation and per-category analysis
func (a *App) Analyze(ctx context.Context) (*AnalysisReport, error) {
	days, err := a.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	insights, err := analysis.Summarize(days)
	if err != nil {
		return nil, err
	}
	matrix := analysis.CorrelationMatrix(days)
	a.metrics.RecordStage(StageAnalyze, time.Since(start).Seconds())

	if err := a.publisher.PublishDays(ctx, days); err != nil {
		return nil, err
	}
	if err := a.publisher.PublishAnalysis(ctx, insights, matrix); err != nil {
		return nil, err
	}

	report.PrintInsights(a.out, insights, analysis.SentimentCorrelations(matrix))
	return &AnalysisReport{Days: days, Insights: insights, Correlations: matrix}, nil
}

// Backtest simulates every configured strategy, ranks them and derives the
// current signal
func (a *App) Backtest(ctx context.Context) (*BacktestReport, error) {
	days, err := a.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	names := a.strategyNames()
	if len(a.cfg.Backtest.Strategies) > 0 && len(names) == 0 {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("every listed strategy is disabled"))
	}

	start := time.Now()
	results, err := a.backtester.RunAll(ctx, names, days, a.cfg.Backtest.InitialCapital)
	if err != nil {
		return nil, err
	}
	ranking := backtest.Compare(results)
	a.metrics.RecordStage(StageBacktest, time.Since(start).Seconds())

	var alerts []alert.Alert
	for _, r := range results {
		fired := alert.Check(a.rules, r.Strategy, r.Stats.Map())
		for _, al := range fired {
			a.logger.Warn("backtest alert",
				zap.String("rule", al.Rule),
				zap.String("strategy", al.Subject),
				zap.String("message", al.Message),
			)
		}
		alerts = append(alerts, fired...)
	}

	sig, err := a.signal(days)
	if err != nil {
		return nil, err
	}

	if err := a.publisher.PublishDays(ctx, days); err != nil {
		return nil, err
	}
	if err := a.publisher.PublishBacktest(ctx, results, ranking); err != nil {
		return nil, err
	}
	if err := a.publisher.PublishSignal(ctx, sig); err != nil {
		return nil, err
	}

	if best, ok := ranking.Best(); ok {
		a.logger.Info("best strategy",
			zap.String("strategy", best.Strategy),
			zap.Float64("sharpe", best.Stats.SharpeRatio),
			zap.Float64("total_return_pct", best.Stats.TotalReturn),
		)
	}

	report.PrintComparison(a.out, ranking)
	for _, al := range alerts {
		fmt.Fprintln(a.out, al.Message)
	}
	fmt.Fprintln(a.out)
	report.PrintSignal(a.out, sig)
	return &BacktestReport{Days: days, Results: results, Ranking: ranking, Signal: sig, Alerts: alerts}, nil
}

// Signal derives the trading signal for the latest merged day
func (a *App) Signal(ctx context.Context) (*signal.Signal, error) {
	days, err := a.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	sig, err := a.signal(days)
	if err != nil {
		return nil, err
	}
	if err := a.publisher.PublishSignal(ctx, sig); err != nil {
		return nil, err
	}

	report.PrintSignal(a.out, sig)
	return sig, nil
}

func (a *App) signal(days []core.DailyRecord) (*signal.Signal, error) {
	start := time.Now()
	sig, err := signal.Generate(days)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordStage(StageSignal, time.Since(start).Seconds())
	a.metrics.RecordSignal(string(sig.Action))

	a.logger.Info("signal generated",
		zap.String("date", sig.Date.Format(core.DateLayout)),
		zap.Float64("sentiment", sig.Score),
		zap.String("action", string(sig.Action)),
	)
	return sig, nil
}

// Finish writes the run manifest and, when enabled, the metrics textfile
func (a *App) Finish(ctx context.Context, command string) error {
	if err := a.publisher.Finish(ctx, command); err != nil {
		return err
	}

	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Textfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return core.WrapError(core.ErrOutputFailed, err)
		}
		a.logger.Debug("metrics written", zap.String("path", a.cfg.Metrics.Textfile))
	}
	return nil
}

// strategyNames returns the configured run order without disabled strategies
func (a *App) strategyNames() []string {
	if len(a.cfg.Backtest.Strategies) == 0 {
		return nil
	}
	names := make([]string, 0, len(a.cfg.Backtest.Strategies))
	for _, name := range a.cfg.Backtest.Strategies {
		if a.cfg.StrategyEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}
