package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/backtest"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/signal"
)

// PrintInsights writes the human-readable analysis summary.
func PrintInsights(w io.Writer, in *analysis.Insights, correlations []analysis.Correlation) {
	fmt.Fprintln(w, "===== Sentiment vs Trader Performance =====")
	fmt.Fprintf(w, "Days Analyzed:         %d\n", in.TotalDays)
	fmt.Fprintf(w, "Total Trades:          %d\n", in.TotalTrades)
	fmt.Fprintf(w, "Total Volume:          $%s\n", money(in.TotalVolume))
	fmt.Fprintf(w, "Avg Daily PnL:         $%s\n", money(in.AvgDailyPnL))
	fmt.Fprintf(w, "Profitable Days:       %d/%d (%.1f%%)\n",
		in.ProfitableDays, in.TotalDays, in.ProfitableDaysRatio*100)

	fmt.Fprintln(w, "\n-- Sentiment Correlation --")
	fmt.Fprintf(w, "Sentiment vs PnL:      %s (%s)\n", ratio(in.SentimentPnLCorrelation), in.Relationship)
	fmt.Fprintf(w, "Sentiment vs Win Rate: %s\n", ratio(in.SentimentWinRateCorrelation))
	for _, c := range correlations {
		fmt.Fprintf(w, "  %-20s %s\n", c.Metric, ratio(c.Value))
	}

	fmt.Fprintln(w, "\n-- Performance by Sentiment --")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Category\tDays\tMean PnL\tMedian PnL\tWin Rate\tTrades/Day\t")
	for _, c := range in.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.1f\t\n",
			c.Category, c.Days, money(c.MeanTotalPnL), money(c.MedianTotalPnL),
			percent(c.MeanWinRate*100), c.MeanTradeCount)
	}
	tw.Flush()

	fmt.Fprintln(w, "\n-- Findings --")
	fmt.Fprintf(w, "Best Category:         %s ($%s avg daily PnL)\n", in.BestCategory, money(in.BestAvgPnL))
	fmt.Fprintf(w, "Worst Category:        %s\n", in.WorstCategory)
	fmt.Fprintf(w, "Fear/Greed Days:       %d/%d\n", in.FearDays, in.GreedDays)
	fmt.Fprintln(w, "===========================================")
}

// PrintComparison writes the strategy ranking table.
func PrintComparison(w io.Writer, ranking backtest.Ranking) {
	fmt.Fprintln(w, "===== Strategy Comparison =====")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tStrategy\tTotal Return\tSharpe\tVolatility\tMax Drawdown\tFinal Value\tB/S/H")
	for _, e := range ranking {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%.4f\t%s\t$%s\t%d/%d/%d\n",
			e.Rank, e.Strategy, percent(e.Stats.TotalReturn), e.Stats.SharpeRatio,
			e.Stats.Volatility, percent(e.Stats.MaxDrawdown), money(e.Stats.FinalValue),
			e.Stats.Buys, e.Stats.Sells, e.Stats.Holds)
	}
	tw.Flush()

	if best, ok := ranking.Best(); ok {
		fmt.Fprintf(w, "\nBest Strategy:         %s (Sharpe %.3f)\n", best.Description, best.Stats.SharpeRatio)
	}
	fmt.Fprintln(w, "===============================")
}

// PrintSignal writes the current trading signal.
func PrintSignal(w io.Writer, s *signal.Signal) {
	fmt.Fprintln(w, "===== Current Trading Signal =====")
	fmt.Fprintf(w, "Date:                  %s\n", s.Date.Format(core.DateLayout))
	fmt.Fprintf(w, "Sentiment:             %.0f (%s)\n", s.Score, s.Category)
	fmt.Fprintf(w, "Trader PnL:            $%s\n", money(s.TotalPnL))

	fmt.Fprintln(w, "\n-- Recommendation --")
	fmt.Fprintf(w, "Action:                %s\n", s.Action)
	fmt.Fprintf(w, "Confidence:            %s\n", s.Confidence)
	fmt.Fprintf(w, "Reason:                %s\n", s.Reason)
	fmt.Fprintf(w, "Position Size:         %s\n", s.PositionSize)

	fmt.Fprintln(w, "\n-- Risk Management --")
	fmt.Fprintf(w, "Stop Loss:             %.0f%%\n", s.Risk.StopLossPct)
	fmt.Fprintf(w, "Take Profit:           %.0f%%\n", s.Risk.TakeProfitPct)
	fmt.Fprintf(w, "Note:                  %s\n", s.Risk.Note)
	fmt.Fprintln(w, "==================================")
}

func money(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func ratio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.3f", v)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}
