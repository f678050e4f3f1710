package report

import (
	"encoding/json"
	"math"

	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/signal"
)

// SignalDoc is the JSON form of a signal
type SignalDoc struct {
	Date           string  `json:"date"`
	SentimentScore float64 `json:"sentiment_score"`
	Category       string  `json:"category"`
	TotalPnL       float64 `json:"total_pnl"`
	Action         string  `json:"action"`
	Confidence     string  `json:"confidence"`
	Reason         string  `json:"reason"`
	PositionSize   string  `json:"position_size"`
	StopLossPct    float64 `json:"stop_loss_pct"`
	TakeProfitPct  float64 `json:"take_profit_pct"`
	RiskNote       string  `json:"risk_note"`
}

// NewSignalDoc flattens a signal for serialization
func NewSignalDoc(s *signal.Signal) SignalDoc {
	return SignalDoc{
		Date:           s.Date.Format(core.DateLayout),
		SentimentScore: s.Score,
		Category:       string(s.Category),
		TotalPnL:       s.TotalPnL,
		Action:         string(s.Action),
		Confidence:     string(s.Confidence),
		Reason:         s.Reason,
		PositionSize:   s.PositionSize,
		StopLossPct:    s.Risk.StopLossPct,
		TakeProfitPct:  s.Risk.TakeProfitPct,
		RiskNote:       s.Risk.Note,
	}
}

// InsightsDoc is the JSON form of the analysis summary. Undefined
// statistics are null.
type InsightsDoc struct {
	TotalDays           int      `json:"total_days"`
	TotalTrades         int      `json:"total_trades"`
	TotalVolume         float64  `json:"total_volume"`
	AvgDailyPnL         *float64 `json:"avg_daily_pnl"`
	ProfitableDays      int      `json:"profitable_days"`
	ProfitableDaysRatio float64  `json:"profitable_days_ratio"`

	SentimentPnLCorrelation     *float64 `json:"sentiment_pnl_correlation"`
	SentimentWinRateCorrelation *float64 `json:"sentiment_win_rate_correlation"`
	Relationship                string   `json:"relationship"`

	BestCategory  string   `json:"best_category"`
	BestAvgPnL    *float64 `json:"best_avg_pnl"`
	WorstCategory string   `json:"worst_category"`
	FearDays      int      `json:"fear_days"`
	GreedDays     int      `json:"greed_days"`

	Correlations map[string]*float64 `json:"sentiment_correlations"`
}

// NewInsightsDoc flattens insights and the sentiment row of the
// correlation matrix for serialization
func NewInsightsDoc(in *analysis.Insights, correlations []analysis.Correlation) InsightsDoc {
	doc := InsightsDoc{
		TotalDays:                   in.TotalDays,
		TotalTrades:                 in.TotalTrades,
		TotalVolume:                 in.TotalVolume,
		AvgDailyPnL:                 nullable(in.AvgDailyPnL),
		ProfitableDays:              in.ProfitableDays,
		ProfitableDaysRatio:         in.ProfitableDaysRatio,
		SentimentPnLCorrelation:     nullable(in.SentimentPnLCorrelation),
		SentimentWinRateCorrelation: nullable(in.SentimentWinRateCorrelation),
		Relationship:                string(in.Relationship),
		BestCategory:                string(in.BestCategory),
		BestAvgPnL:                  nullable(in.BestAvgPnL),
		WorstCategory:               string(in.WorstCategory),
		FearDays:                    in.FearDays,
		GreedDays:                   in.GreedDays,
		Correlations:                make(map[string]*float64, len(correlations)),
	}
	for _, c := range correlations {
		doc.Correlations[string(c.Metric)] = nullable(c.Value)
	}
	return doc
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// nullable maps NaN and infinities, which JSON cannot carry, to null
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
