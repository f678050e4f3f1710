package analysis

import (
	"math"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
)

// Relationship describes the direction of the sentiment/PnL correlation
type Relationship string

const (
	RelationshipPositive Relationship = "positive"
	RelationshipNegative Relationship = "negative"
	RelationshipWeak     Relationship = "weak"
)

// relationshipThreshold separates a weak correlation from a directional one
const relationshipThreshold = 0.1

// Insights holds the headline findings over the merged series
type Insights struct {
	TotalTrades         int
	TotalVolume         float64
	AvgDailyPnL         float64
	ProfitableDays      int
	TotalDays           int
	ProfitableDaysRatio float64

	SentimentPnLCorrelation     float64
	SentimentWinRateCorrelation float64
	Relationship                Relationship

	// Categories ranked by mean daily total PnL, best first
	BestCategory  core.Category
	BestAvgPnL    float64
	WorstCategory core.Category

	FearDays  int
	GreedDays int

	Categories []CategoryStats
}

// Summarize derives Insights from the merged series
func Summarize(days []core.DailyRecord) (*Insights, error) {
	if len(days) == 0 {
		return nil, core.ErrNoData
	}

	in := &Insights{TotalDays: len(days)}
	for _, d := range days {
		in.TotalTrades += d.TradeCount
		in.TotalVolume += d.TotalVolume
		if d.TotalPnL > 0 {
			in.ProfitableDays++
		}
		switch {
		case d.SentimentCategory.IsFear():
			in.FearDays++
		case d.SentimentCategory.IsGreed():
			in.GreedDays++
		}
	}
	in.AvgDailyPnL = indicator.Mean(Column(days, MetricTotalPnL))
	in.ProfitableDaysRatio = float64(in.ProfitableDays) / float64(in.TotalDays)

	scores := Column(days, MetricSentiment)
	in.SentimentPnLCorrelation = indicator.Pearson(scores, Column(days, MetricTotalPnL))
	in.SentimentWinRateCorrelation = indicator.Pearson(scores, Column(days, MetricWinRate))
	in.Relationship = classify(in.SentimentPnLCorrelation)

	in.Categories = ByCategory(days)
	best, worst := -1, -1
	for i, c := range in.Categories {
		if best < 0 || c.MeanTotalPnL > in.Categories[best].MeanTotalPnL {
			best = i
		}
		if worst < 0 || c.MeanTotalPnL < in.Categories[worst].MeanTotalPnL {
			worst = i
		}
	}
	in.BestCategory = in.Categories[best].Category
	in.BestAvgPnL = in.Categories[best].MeanTotalPnL
	in.WorstCategory = in.Categories[worst].Category

	return in, nil
}

func classify(r float64) Relationship {
	switch {
	case math.IsNaN(r):
		return RelationshipWeak
	case r > relationshipThreshold:
		return RelationshipPositive
	case r < -relationshipThreshold:
		return RelationshipNegative
	default:
		return RelationshipWeak
	}
}
