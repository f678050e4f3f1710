package analysis

import (
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
)

// CategoryStats summarises trader performance on days of one sentiment category
type CategoryStats struct {
	Category core.Category
	Days     int

	MeanTotalPnL   float64
	MedianTotalPnL float64
	StdTotalPnL    float64
	MeanAvgPnL     float64
	MedianAvgPnL   float64
	MeanWinRate    float64
	MedianWinRate  float64

	MeanTradeCount    float64
	MeanTotalVolume   float64
	MeanUniqueTraders float64
}

// ByCategory groups days by sentiment category. Categories without days are
// omitted; the result follows core.Categories order.
func ByCategory(days []core.DailyRecord) []CategoryStats {
	groups := make(map[core.Category][]core.DailyRecord)
	for _, d := range days {
		groups[d.SentimentCategory] = append(groups[d.SentimentCategory], d)
	}

	var out []CategoryStats
	for _, c := range core.Categories {
		group, ok := groups[c]
		if !ok {
			continue
		}

		totalPnL := Column(group, MetricTotalPnL)
		avgPnL := Column(group, MetricAvgPnL)
		winRate := Column(group, MetricWinRate)

		out = append(out, CategoryStats{
			Category:          c,
			Days:              len(group),
			MeanTotalPnL:      indicator.Mean(totalPnL),
			MedianTotalPnL:    indicator.Median(totalPnL),
			StdTotalPnL:       indicator.SampleStdDev(totalPnL),
			MeanAvgPnL:        indicator.Mean(avgPnL),
			MedianAvgPnL:      indicator.Median(avgPnL),
			MeanWinRate:       indicator.Mean(winRate),
			MedianWinRate:     indicator.Median(winRate),
			MeanTradeCount:    indicator.Mean(Column(group, MetricTradeCount)),
			MeanTotalVolume:   indicator.Mean(Column(group, MetricTotalVolume)),
			MeanUniqueTraders: indicator.Mean(Column(group, MetricUniqueTraders)),
		})
	}
	return out
}
