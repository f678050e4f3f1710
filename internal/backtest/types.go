package backtest

import (
	"time"

	"github.com/newthinker/sentiq/internal/core"
)

// PnLScale maps a day's raw dollar PnL onto a fractional portfolio return
const PnLScale = 1_000_000

// TradingDaysPerYear annualizes daily return statistics
const TradingDaysPerYear = 252

// Result holds the complete output of one strategy simulation.
// It owns its Trades and is not modified once returned.
type Result struct {
	Strategy       string
	Description    string
	InitialCapital float64
	StartDate      time.Time
	EndDate        time.Time
	Trades         []Trade
	Stats          Stats
}

// Trade records one simulated day
type Trade struct {
	Date            time.Time
	Sentiment       float64
	Category        core.Category
	Indicator       float64 // strategy-specific signal (score, momentum, volatility)
	Action          core.Action
	PositionSize    float64
	DailyPnL        float64
	PortfolioValue  float64 // after applying this day's return
	PortfolioReturn float64
}

// Stats holds performance statistics
type Stats struct {
	Days        int
	Buys        int
	Sells       int
	Holds       int
	FinalValue  float64
	TotalReturn float64 // percent of initial capital
	Volatility  float64 // annualized stdev of daily returns
	SharpeRatio float64 // annualized, risk-free rate of 0
	MaxDrawdown float64 // percent, <= 0
}

// Values returns the portfolio value after each day
func (r *Result) Values() []float64 {
	out := make([]float64, len(r.Trades))
	for i, t := range r.Trades {
		out[i] = t.PortfolioValue
	}
	return out
}

// Returns returns the incremental portfolio return of each day
func (r *Result) Returns() []float64 {
	out := make([]float64, len(r.Trades))
	for i, t := range r.Trades {
		out[i] = t.PortfolioReturn
	}
	return out
}

// Map exposes the statistics by name, for threshold rules
func (s Stats) Map() map[string]float64 {
	return map[string]float64{
		"days":         float64(s.Days),
		"buys":         float64(s.Buys),
		"sells":        float64(s.Sells),
		"holds":        float64(s.Holds),
		"final_value":  s.FinalValue,
		"total_return": s.TotalReturn,
		"volatility":   s.Volatility,
		"sharpe_ratio": s.SharpeRatio,
		"max_drawdown": s.MaxDrawdown,
	}
}
