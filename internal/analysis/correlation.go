package analysis

import (
	"math"
	"sort"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
)

// Metric names a numeric column of the merged series
type Metric string

const (
	MetricSentiment     Metric = "sentiment_score"
	MetricTotalPnL      Metric = "total_pnl"
	MetricAvgPnL        Metric = "avg_pnl"
	MetricTradeCount    Metric = "trade_count"
	MetricTotalVolume   Metric = "total_volume"
	MetricWinRate       Metric = "win_rate"
	MetricUniqueTraders Metric = "unique_traders"
)

// Metrics lists the columns included in the correlation matrix
var Metrics = []Metric{
	MetricSentiment,
	MetricTotalPnL,
	MetricAvgPnL,
	MetricTradeCount,
	MetricTotalVolume,
	MetricWinRate,
	MetricUniqueTraders,
}

// Column extracts one metric from every day
func Column(days []core.DailyRecord, m Metric) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		switch m {
		case MetricSentiment:
			out[i] = d.SentimentScore
		case MetricTotalPnL:
			out[i] = d.TotalPnL
		case MetricAvgPnL:
			out[i] = d.AvgPnL
		case MetricTradeCount:
			out[i] = float64(d.TradeCount)
		case MetricTotalVolume:
			out[i] = d.TotalVolume
		case MetricWinRate:
			out[i] = d.WinRate
		case MetricUniqueTraders:
			out[i] = float64(d.UniqueTraders)
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

// Matrix is a symmetric correlation matrix keyed by metric
type Matrix map[Metric]map[Metric]float64

// Get returns the correlation of a and b
func (m Matrix) Get(a, b Metric) float64 {
	if row, ok := m[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	return math.NaN()
}

// CorrelationMatrix computes pairwise Pearson correlations of all Metrics
func CorrelationMatrix(days []core.DailyRecord) Matrix {
	cols := make(map[Metric][]float64, len(Metrics))
	for _, m := range Metrics {
		cols[m] = Column(days, m)
	}

	matrix := make(Matrix, len(Metrics))
	for _, a := range Metrics {
		matrix[a] = make(map[Metric]float64, len(Metrics))
	}
	for i, a := range Metrics {
		for _, b := range Metrics[i:] {
			r := indicator.Pearson(cols[a], cols[b])
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			matrix[a][b] = r
			matrix[b][a] = r
		}
	}
	return matrix
}

// Correlation pairs a metric with its correlation to the sentiment score
type Correlation struct {
	Metric Metric
	Value  float64
}

// SentimentCorrelations returns each metric's correlation with the sentiment
// score, strongest positive first. Undefined correlations sort last.
func SentimentCorrelations(m Matrix) []Correlation {
	out := make([]Correlation, 0, len(Metrics)-1)
	for _, metric := range Metrics {
		if metric == MetricSentiment {
			continue
		}
		out = append(out, Correlation{Metric: metric, Value: m.Get(MetricSentiment, metric)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Value, out[j].Value
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		if math.IsNaN(vi) {
			return false
		}
		return vi > vj
	})
	return out
}
