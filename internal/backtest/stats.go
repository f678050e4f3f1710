package backtest

import (
	"math"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
)

// CalculateStats computes performance statistics of a simulated run
func CalculateStats(trades []Trade, initialCapital float64) Stats {
	stats := Stats{
		Days:       len(trades),
		FinalValue: initialCapital,
	}
	if len(trades) == 0 {
		return stats
	}

	returns := make([]float64, len(trades))
	values := make([]float64, len(trades))
	for i, t := range trades {
		returns[i] = t.PortfolioReturn
		values[i] = t.PortfolioValue
		switch t.Action {
		case core.ActionBuy:
			stats.Buys++
		case core.ActionSell:
			stats.Sells++
		default:
			stats.Holds++
		}
	}

	stats.FinalValue = values[len(values)-1]
	if initialCapital != 0 {
		stats.TotalReturn = (stats.FinalValue - initialCapital) / initialCapital * 100
	}
	stats.Volatility = calculateVolatility(returns)
	stats.SharpeRatio = calculateSharpeRatio(returns, stats.Volatility)
	stats.MaxDrawdown = calculateMaxDrawdown(values)

	return stats
}

// calculateVolatility annualizes the sample stdev of daily returns.
// Fewer than two returns yield 0.
func calculateVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	std := indicator.SampleStdDev(returns)
	if math.IsNaN(std) {
		return 0
	}
	return std * math.Sqrt(TradingDaysPerYear)
}

// calculateSharpeRatio divides the annualized mean return by volatility.
// Assumes risk-free rate of 0; zero volatility yields 0.
func calculateSharpeRatio(returns []float64, volatility float64) float64 {
	if len(returns) == 0 || !(volatility > 0) {
		return 0
	}
	return indicator.Mean(returns) * TradingDaysPerYear / volatility
}

// calculateMaxDrawdown finds the deepest decline from the running peak, in percent (<= 0)
func calculateMaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var maxDD float64
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}
