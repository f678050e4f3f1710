package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/strategy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recorder receives per-run measurements
type Recorder interface {
	RecordBacktest(strategy, status string, duration float64)
	RecordStrategyStats(strategy string, totalReturn, sharpe, maxDrawdown float64)
}

// State is carried from one simulated day to the next
type State struct {
	Position decimal.Decimal
	Value    float64
}

// Simulate folds strategy decisions over days in order. Days before the
// strategy's window is full are skipped and produce no trade.
func Simulate(strat strategy.Strategy, days []core.DailyRecord, initialCapital float64) (*Result, error) {
	window := max(1, strat.RequiredData().Window)

	state := State{Position: strat.InitialPosition(), Value: initialCapital}
	trades := make([]Trade, 0, max(0, len(days)-window+1))

	for i := window - 1; i < len(days); i++ {
		day := days[i]
		decision, err := strat.Decide(strategy.AnalysisContext{
			Day:      day,
			History:  days[i-window+1 : i+1],
			Position: state.Position,
		})
		if err != nil {
			return nil, core.WrapError(core.ErrStrategyFailed,
				fmt.Errorf("%s on %s: %w", strat.Name(), day.Date.Format(core.DateLayout), err))
		}

		var trade Trade
		state, trade = step(state, day, decision)
		trades = append(trades, trade)
	}

	result := &Result{
		Strategy:       strat.Name(),
		Description:    strat.Description(),
		InitialCapital: initialCapital,
		Trades:         trades,
		Stats:          CalculateStats(trades, initialCapital),
	}
	if len(trades) > 0 {
		result.StartDate = trades[0].Date
		result.EndDate = trades[len(trades)-1].Date
	}
	return result, nil
}

// step applies one day's decision to the carried state
func step(s State, day core.DailyRecord, d strategy.Decision) (State, Trade) {
	position := d.Position.InexactFloat64()
	ret := (day.TotalPnL / PnLScale) * position
	next := State{Position: d.Position, Value: s.Value + ret}

	return next, Trade{
		Date:            day.Date,
		Sentiment:       day.SentimentScore,
		Category:        day.SentimentCategory,
		Indicator:       d.Indicator,
		Action:          d.Action,
		PositionSize:    position,
		DailyPnL:        day.TotalPnL,
		PortfolioValue:  next.Value,
		PortfolioReturn: ret,
	}
}

// Backtester runs registered strategies against the merged daily series
type Backtester struct {
	engine   *strategy.Engine
	logger   *zap.Logger
	recorder Recorder
}

// New creates a Backtester over the strategies registered in engine
func New(engine *strategy.Engine, logger *zap.Logger, recorder Recorder) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backtester{
		engine:   engine,
		logger:   logger,
		recorder: recorder,
	}
}

// Run simulates one strategy
func (b *Backtester) Run(ctx context.Context, strat strategy.Strategy, days []core.DailyRecord, initialCapital float64) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	result, err := Simulate(strat, days, initialCapital)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		b.record(strat.Name(), "error", elapsed, nil)
		return nil, err
	}
	b.record(strat.Name(), "success", elapsed, result)

	b.logger.Info("strategy simulated",
		zap.String("strategy", result.Strategy),
		zap.Int("days", result.Stats.Days),
		zap.Float64("total_return_pct", result.Stats.TotalReturn),
		zap.Float64("volatility", result.Stats.Volatility),
		zap.Float64("sharpe_ratio", result.Stats.SharpeRatio),
		zap.Float64("max_drawdown_pct", result.Stats.MaxDrawdown),
	)
	if result.Stats.Days == 0 {
		b.logger.Warn("strategy produced no trades",
			zap.String("strategy", result.Strategy),
			zap.Int("window", strat.RequiredData().Window),
			zap.Int("days", len(days)),
		)
	}
	return result, nil
}

// RunAll simulates the named strategies in order; an empty list runs all of them
func (b *Backtester) RunAll(ctx context.Context, names []string, days []core.DailyRecord, initialCapital float64) ([]*Result, error) {
	strategies, err := b.engine.Resolve(names)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, core.ErrNoData
	}

	results := make([]*Result, 0, len(strategies))
	for _, s := range strategies {
		r, err := b.Run(ctx, s, days, initialCapital)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (b *Backtester) record(name, status string, elapsed float64, r *Result) {
	if b.recorder == nil {
		return
	}
	b.recorder.RecordBacktest(name, status, elapsed)
	if r != nil {
		b.recorder.RecordStrategyStats(name, r.Stats.TotalReturn, r.Stats.SharpeRatio, r.Stats.MaxDrawdown)
	}
}
