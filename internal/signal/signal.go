package signal

import (
	"time"

	"github.com/newthinker/sentiq/internal/core"
)

// Recommendation is the position guidance for one sentiment band
type Recommendation struct {
	Action       core.Action
	Confidence   core.Confidence
	Reason       string
	PositionSize string // recommended allocation range, e.g. "60-80%"
}

// RiskLevels are the stop-loss and take-profit distances, in percent
type RiskLevels struct {
	StopLossPct   float64
	TakeProfitPct float64
	Note          string
}

// Signal is the trading guidance for the most recent merged day
type Signal struct {
	Date      time.Time
	Score     float64
	Category  core.Category
	TotalPnL  float64
	Recommendation
	Risk RiskLevels
}

// recommendationBands are inclusive upper bounds, checked in order
var recommendationBands = []struct {
	upper float64
	rec   Recommendation
}{
	{30, Recommendation{core.ActionStrongBuy, core.ConfidenceHigh, "Extreme Fear - Contrarian Opportunity", "80-100%"}},
	{45, Recommendation{core.ActionBuy, core.ConfidenceMedium, "Fear - Good Entry Point", "60-80%"}},
	{55, Recommendation{core.ActionHold, core.ConfidenceLow, "Neutral - Wait for Clear Direction", "40-60%"}},
	{75, Recommendation{core.ActionSell, core.ConfidenceMedium, "Greed - Take Profits", "20-40%"}},
}

var extremeGreed = Recommendation{core.ActionStrongSell, core.ConfidenceHigh, "Extreme Greed - Risk Management", "10-20%"}

// Risk bands split the score three ways, independently of the recommendation bands
const (
	riskFearAtOrBelow  = 30
	riskGreedAtOrAbove = 70
)

var (
	fearRisk     = RiskLevels{StopLossPct: 15, TakeProfitPct: 50, Note: "Fear periods allow wider stops"}
	greedRisk    = RiskLevels{StopLossPct: 6, TakeProfitPct: 20, Note: "Tight risk control"}
	standardRisk = RiskLevels{StopLossPct: 10, TakeProfitPct: 30, Note: "Standard risk management"}
)

// Recommend maps a sentiment score to position guidance
func Recommend(score float64) Recommendation {
	for _, b := range recommendationBands {
		if score <= b.upper {
			return b.rec
		}
	}
	return extremeGreed
}

// Risk maps a sentiment score to stop-loss and take-profit levels
func Risk(score float64) RiskLevels {
	switch {
	case score <= riskFearAtOrBelow:
		return fearRisk
	case score >= riskGreedAtOrAbove:
		return greedRisk
	default:
		return standardRisk
	}
}

// Generate builds the signal for the last day of the series
func Generate(days []core.DailyRecord) (*Signal, error) {
	if len(days) == 0 {
		return nil, core.ErrNoData
	}

	latest := days[len(days)-1]
	return &Signal{
		Date:           latest.Date,
		Score:          latest.SentimentScore,
		Category:       latest.SentimentCategory,
		TotalPnL:       latest.TotalPnL,
		Recommendation: Recommend(latest.SentimentScore),
		Risk:           Risk(latest.SentimentScore),
	}, nil
}
