package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/backtest"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/signal"
	"github.com/newthinker/sentiq/internal/storage/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleDays() []core.DailyRecord {
	scores := []float64{20, 40, 50, 60, 80}
	pnls := []float64{-100, 50, 10, 200, 300}
	days := make([]core.DailyRecord, len(scores))
	for i := range scores {
		days[i] = core.DailyRecord{
			Date:              day0.AddDate(0, 0, i),
			SentimentScore:    scores[i],
			SentimentCategory: core.Categorize(scores[i]),
			DailyMetrics: core.DailyMetrics{
				Date:          day0.AddDate(0, 0, i),
				TotalPnL:      pnls[i],
				AvgPnL:        pnls[i] / 2,
				TradeCount:    2,
				TotalVolume:   1000,
				AvgTradeSize:  500,
				TotalFees:     1.5,
				UniqueTraders: 1,
				WinRate:       0.5,
				Profitable:    pnls[i] > 0,
			},
		}
	}
	return days
}

func sampleResult(name string) *backtest.Result {
	return &backtest.Result{
		Strategy:    name,
		Description: name + " strategy",
		Trades: []backtest.Trade{
			{Date: day0, Sentiment: 20, Category: core.CategoryExtremeFear, Indicator: 20,
				Action: core.ActionBuy, PositionSize: 0.1, DailyPnL: 100, PortfolioValue: 100000.01, PortfolioReturn: 1e-5},
		},
		Stats: backtest.Stats{Days: 1, Buys: 1, FinalValue: 100000.01, TotalReturn: 1e-5, SharpeRatio: 1.5},
	}
}

func sampleSignal() *signal.Signal {
	sig, _ := signal.Generate(sampleDays()[:1])
	return sig
}

func TestWriteDaysCSV(t *testing.T) {
	days := sampleDays()[:1]
	days[0].AvgPnL = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, WriteDaysCSV(&buf, days))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "date,sentiment_score,sentiment_category,total_pnl,avg_pnl"))
	assert.Equal(t, "2024-03-01,20,Extreme Fear,-100,,2,1000,500,1.5,1,0.5,false", lines[1])
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, sampleResult("contrarian").Trades))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,sentiment,category,indicator,action,position_size,daily_pnl,portfolio_value,portfolio_return", lines[0])
	assert.Equal(t, "2024-03-01,20,Extreme Fear,20,BUY,0.1,100,100000.01,0.00001", lines[1])
}

func TestWriteComparisonCSV_QuotesDescriptions(t *testing.T) {
	ranking := backtest.Ranking{{Rank: 1, Strategy: "momentum", Description: "Momentum (5-day, +/-5)"}}

	var buf bytes.Buffer
	require.NoError(t, WriteComparisonCSV(&buf, ranking))
	assert.Contains(t, buf.String(), `1,momentum,"Momentum (5-day, +/-5)",0,0,0,0,0,0,0,0,0`)
}

func TestWriteCorrelationsCSV(t *testing.T) {
	m := analysis.CorrelationMatrix(sampleDays())

	var buf bytes.Buffer
	require.NoError(t, WriteCorrelationsCSV(&buf, m))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(analysis.Metrics)+1)
	assert.Equal(t, "metric", strings.Split(lines[0], ",")[0])
	// the diagonal of a defined column is exactly 1
	assert.True(t, strings.HasPrefix(lines[1], "sentiment_score,1,"))
}

func TestWriteCategoriesCSV(t *testing.T) {
	stats := analysis.ByCategory(sampleDays())

	var buf bytes.Buffer
	require.NoError(t, WriteCategoriesCSV(&buf, stats))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(stats)+1)
	// single-day categories have no sample stdev
	assert.True(t, strings.HasPrefix(lines[1], "Extreme Fear,1,-100,-100,,"))
}

func TestNewInsightsDoc_NullsUndefined(t *testing.T) {
	in := &analysis.Insights{
		TotalDays:               1,
		AvgDailyPnL:             12.5,
		SentimentPnLCorrelation: math.NaN(),
		Relationship:            analysis.RelationshipWeak,
	}
	corr := []analysis.Correlation{{Metric: analysis.MetricWinRate, Value: math.NaN()}}

	data, err := marshal(NewInsightsDoc(in, corr))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Nil(t, doc["sentiment_pnl_correlation"])
	assert.Equal(t, 12.5, doc["avg_daily_pnl"])
	assert.Equal(t, "weak", doc["relationship"])
	assert.Contains(t, doc["sentiment_correlations"], "win_rate")
}

func TestNewSignalDoc(t *testing.T) {
	doc := NewSignalDoc(sampleSignal())
	assert.Equal(t, "2024-03-01", doc.Date)
	assert.Equal(t, "STRONG BUY", doc.Action)
	assert.Equal(t, "HIGH", doc.Confidence)
	assert.Equal(t, 15.0, doc.StopLossPct)
}

func TestPrinters(t *testing.T) {
	days := sampleDays()
	in, err := analysis.Summarize(days)
	require.NoError(t, err)
	m := analysis.CorrelationMatrix(days)

	var buf bytes.Buffer
	PrintInsights(&buf, in, analysis.SentimentCorrelations(m))
	assert.Contains(t, buf.String(), "Days Analyzed:         5")
	assert.Contains(t, buf.String(), "Extreme Greed")

	buf.Reset()
	ranking := backtest.Compare([]*backtest.Result{sampleResult("contrarian"), sampleResult("momentum")})
	PrintComparison(&buf, ranking)
	assert.Contains(t, buf.String(), "contrarian")
	assert.Contains(t, buf.String(), "Best Strategy:")

	buf.Reset()
	PrintSignal(&buf, sampleSignal())
	assert.Contains(t, buf.String(), "Extreme Fear - Contrarian Opportunity")
	assert.Contains(t, buf.String(), "Stop Loss:             15%")
}

func TestPublisher_WritesRunArtifacts(t *testing.T) {
	store, err := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	p := NewPublisher(store)
	require.NotEmpty(t, p.RunID())

	days := sampleDays()
	in, err := analysis.Summarize(days)
	require.NoError(t, err)
	results := []*backtest.Result{sampleResult("contrarian"), sampleResult("momentum")}

	require.NoError(t, p.PublishDays(ctx, days))
	require.NoError(t, p.PublishAnalysis(ctx, in, analysis.CorrelationMatrix(days)))
	require.NoError(t, p.PublishBacktest(ctx, results, backtest.Compare(results)))
	require.NoError(t, p.PublishSignal(ctx, sampleSignal()))
	require.NoError(t, p.Finish(ctx, "backtest"))

	paths, err := store.List(ctx, p.Prefix())
	require.NoError(t, err)
	assert.Len(t, paths, 9)

	data, err := store.Get(ctx, p.Prefix()+"/"+FileManifest)
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, p.RunID(), manifest.RunID)
	assert.Equal(t, "backtest", manifest.Command)
	assert.Contains(t, manifest.Files, TradesFile("momentum"))
	assert.Len(t, manifest.Files, 8)
}

func TestPublisher_DistinctRuns(t *testing.T) {
	store, err := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, NewPublisher(store).Prefix(), NewPublisher(store).Prefix())
}

type failingStore struct {
	artifact.Store
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("bucket unavailable")
}

func TestPublisher_StoreFailure(t *testing.T) {
	p := NewPublisher(failingStore{})
	err := p.PublishSignal(context.Background(), sampleSignal())
	assert.ErrorIs(t, err, core.ErrOutputFailed)
	assert.Empty(t, p.Written())
}
