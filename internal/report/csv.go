package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/backtest"
	"github.com/newthinker/sentiq/internal/core"
)

// WriteDaysCSV writes the merged daily series, one row per day.
func WriteDaysCSV(w io.Writer, days []core.DailyRecord) error {
	header := []string{
		"date",
		"sentiment_score",
		"sentiment_category",
		"total_pnl",
		"avg_pnl",
		"trade_count",
		"total_volume",
		"avg_trade_size",
		"total_fees",
		"unique_traders",
		"win_rate",
		"profitable",
	}
	return writeCSV(w, header, len(days), func(i int) []string {
		d := days[i]
		return []string{
			d.Date.Format(core.DateLayout),
			formatFloat(d.SentimentScore),
			string(d.SentimentCategory),
			formatFloat(d.TotalPnL),
			formatFloat(d.AvgPnL),
			strconv.Itoa(d.TradeCount),
			formatFloat(d.TotalVolume),
			formatFloat(d.AvgTradeSize),
			formatFloat(d.TotalFees),
			strconv.Itoa(d.UniqueTraders),
			formatFloat(d.WinRate),
			strconv.FormatBool(d.Profitable),
		}
	})
}

// WriteTradesCSV writes the day-by-day record of one simulation.
func WriteTradesCSV(w io.Writer, trades []backtest.Trade) error {
	header := []string{
		"date",
		"sentiment",
		"category",
		"indicator",
		"action",
		"position_size",
		"daily_pnl",
		"portfolio_value",
		"portfolio_return",
	}
	return writeCSV(w, header, len(trades), func(i int) []string {
		t := trades[i]
		return []string{
			t.Date.Format(core.DateLayout),
			formatFloat(t.Sentiment),
			string(t.Category),
			formatFloat(t.Indicator),
			string(t.Action),
			formatFloat(t.PositionSize),
			formatFloat(t.DailyPnL),
			formatFloat(t.PortfolioValue),
			formatFloat(t.PortfolioReturn),
		}
	})
}

// WriteComparisonCSV writes the strategy ranking.
func WriteComparisonCSV(w io.Writer, ranking backtest.Ranking) error {
	header := []string{
		"rank",
		"strategy",
		"description",
		"total_return_pct",
		"final_value",
		"volatility",
		"sharpe_ratio",
		"max_drawdown_pct",
		"days",
		"buys",
		"sells",
		"holds",
	}
	return writeCSV(w, header, len(ranking), func(i int) []string {
		e := ranking[i]
		return []string{
			strconv.Itoa(e.Rank),
			e.Strategy,
			e.Description,
			formatFloat(e.Stats.TotalReturn),
			formatFloat(e.Stats.FinalValue),
			formatFloat(e.Stats.Volatility),
			formatFloat(e.Stats.SharpeRatio),
			formatFloat(e.Stats.MaxDrawdown),
			strconv.Itoa(e.Stats.Days),
			strconv.Itoa(e.Stats.Buys),
			strconv.Itoa(e.Stats.Sells),
			strconv.Itoa(e.Stats.Holds),
		}
	})
}

// WriteCategoriesCSV writes per-category performance.
func WriteCategoriesCSV(w io.Writer, stats []analysis.CategoryStats) error {
	header := []string{
		"category",
		"days",
		"mean_total_pnl",
		"median_total_pnl",
		"std_total_pnl",
		"mean_avg_pnl",
		"median_avg_pnl",
		"mean_win_rate",
		"median_win_rate",
		"mean_trade_count",
		"mean_total_volume",
		"mean_unique_traders",
	}
	return writeCSV(w, header, len(stats), func(i int) []string {
		s := stats[i]
		return []string{
			string(s.Category),
			strconv.Itoa(s.Days),
			formatFloat(s.MeanTotalPnL),
			formatFloat(s.MedianTotalPnL),
			formatFloat(s.StdTotalPnL),
			formatFloat(s.MeanAvgPnL),
			formatFloat(s.MedianAvgPnL),
			formatFloat(s.MeanWinRate),
			formatFloat(s.MedianWinRate),
			formatFloat(s.MeanTradeCount),
			formatFloat(s.MeanTotalVolume),
			formatFloat(s.MeanUniqueTraders),
		}
	})
}

// WriteCorrelationsCSV writes the full correlation matrix with metric names
// as both the header row and the first column.
func WriteCorrelationsCSV(w io.Writer, m analysis.Matrix) error {
	header := make([]string, 0, len(analysis.Metrics)+1)
	header = append(header, "metric")
	for _, metric := range analysis.Metrics {
		header = append(header, string(metric))
	}
	return writeCSV(w, header, len(analysis.Metrics), func(i int) []string {
		a := analysis.Metrics[i]
		row := make([]string, 0, len(analysis.Metrics)+1)
		row = append(row, string(a))
		for _, b := range analysis.Metrics {
			row = append(row, formatFloat(m.Get(a, b)))
		}
		return row
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatFloat renders NaN as an empty cell
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
