package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/sentiq/internal/config"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/report"
	"github.com/newthinker/sentiq/internal/storage/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureScores = []int{10, 20, 35, 50, 60, 72, 85, 90, 40, 25, 15, 55, 65, 80, 45}

var fixtureStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// writeFixtures writes a sentiment file covering every fixture day and a
// trade ledger covering the same days plus one day without sentiment
func writeFixtures(t *testing.T, dir string) (string, string) {
	t.Helper()

	var s strings.Builder
	s.WriteString("timestamp,value,classification,date\n")
	for i, score := range fixtureScores {
		d := fixtureStart.AddDate(0, 0, i)
		fmt.Fprintf(&s, "%d,%d,%s,%s\n", d.Unix(), score, core.Categorize(float64(score)), d.Format(core.DateLayout))
	}

	var tr strings.Builder
	tr.WriteString("Account,Coin,Execution Price,Size Tokens,Size USD,Side,Timestamp IST,Closed PnL,Fee\n")
	for i := 0; i <= len(fixtureScores); i++ {
		d := fixtureStart.AddDate(0, 0, i).Format("02-01-2006")
		fmt.Fprintf(&tr, "0xaaa,BTC,100,1,100,BUY,%s 10:00,%d,0.1\n", d, i*10-50)
		fmt.Fprintf(&tr, "0xbbb,ETH,50,2,100,SELL,%s 12:30,5,0.1\n", d)
	}

	sentimentPath := filepath.Join(dir, "fear_greed_index.csv")
	tradesPath := filepath.Join(dir, "historical_data.csv")
	require.NoError(t, os.WriteFile(sentimentPath, []byte(s.String()), 0644))
	require.NoError(t, os.WriteFile(tradesPath, []byte(tr.String()), 0644))
	return sentimentPath, tradesPath
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Data.SentimentPath, cfg.Data.TradesPath = writeFixtures(t, dir)
	cfg.Output.Path = filepath.Join(dir, "output")
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *artifact.LocalStore, *bytes.Buffer) {
	t.Helper()
	store, err := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := New(cfg, nil, WithStore(store), WithOutput(&out))
	require.NoError(t, err)
	return a, store, &out
}

func TestApp_Prepare(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig(t))

	days, err := a.Prepare(context.Background())
	require.NoError(t, err)

	// the extra trading day has no sentiment and is dropped
	require.Len(t, days, len(fixtureScores))
	assert.Equal(t, fixtureStart, days[0].Date)
	assert.Equal(t, 10.0, days[0].SentimentScore)
	assert.Equal(t, -45.0, days[0].TotalPnL)
	assert.Equal(t, 2, days[0].TradeCount)
	assert.Equal(t, 2, days[0].UniqueTraders)
}

func TestApp_Analyze(t *testing.T) {
	a, store, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	rep, err := a.Analyze(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(fixtureScores), rep.Insights.TotalDays)
	assert.Equal(t, 2*len(fixtureScores), rep.Insights.TotalTrades)
	assert.Contains(t, out.String(), "Sentiment vs Trader Performance")

	for _, name := range []string{report.FileDays, report.FileCategories, report.FileCorrelations, report.FileInsights} {
		exists, err := store.Exists(ctx, "runs/"+a.RunID()+"/"+name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestApp_Backtest(t *testing.T) {
	a, store, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	rep, err := a.Backtest(ctx)
	require.NoError(t, err)

	require.Len(t, rep.Results, 3)
	assert.Equal(t, "contrarian", rep.Results[0].Strategy)
	assert.Len(t, rep.Results[0].Trades, 15)
	assert.Len(t, rep.Results[1].Trades, 11)
	assert.Len(t, rep.Results[2].Trades, 6)
	require.Len(t, rep.Ranking, 3)
	for i := 1; i < len(rep.Ranking); i++ {
		assert.GreaterOrEqual(t, rep.Ranking[i-1].Stats.SharpeRatio, rep.Ranking[i].Stats.SharpeRatio)
	}
	assert.Equal(t, core.ActionBuy, rep.Signal.Action)

	require.NoError(t, a.Finish(ctx, "backtest"))
	paths, err := store.List(ctx, "runs/"+a.RunID())
	require.NoError(t, err)
	// days, 3 trade logs, comparison, signal, manifest
	assert.Len(t, paths, 7)

	assert.Contains(t, out.String(), "Strategy Comparison")
	assert.Contains(t, out.String(), "Fear - Good Entry Point")
}

func TestApp_Signal(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig(t))

	sig, err := a.Signal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixtureStart.AddDate(0, 0, len(fixtureScores)-1), sig.Date)
	assert.Equal(t, 45.0, sig.Score)
	assert.Equal(t, core.ConfidenceMedium, sig.Confidence)
}

func TestApp_DisabledStrategy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Strategies = map[string]config.StrategyConfig{
		"momentum": {Enabled: false},
		"contrarian": {Enabled: true, Params: map[string]any{
			"step": "0.2",
		}},
	}
	a, _, _ := newTestApp(t, cfg)

	rep, err := a.Backtest(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, "risk_parity", rep.Results[1].Strategy)
	// first day is a fear day: one step of 0.2 from flat
	assert.Equal(t, 0.2, rep.Results[0].Trades[0].PositionSize)
}

func TestApp_AllListedStrategiesDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backtest.Strategies = []string{"momentum"}
	cfg.Strategies = map[string]config.StrategyConfig{"momentum": {Enabled: false}}
	a, _, _ := newTestApp(t, cfg)

	_, err := a.Backtest(context.Background())
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestApp_UnknownStrategy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backtest.Strategies = []string{"contrarian", "martingale"}
	a, store, _ := newTestApp(t, cfg)
	ctx := context.Background()

	_, err := a.Backtest(ctx)
	assert.True(t, errors.Is(err, core.ErrStrategyNotFound))

	// a failed stage leaves no artifacts behind
	paths, err := store.List(ctx, "runs/"+a.RunID())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestApp_InvalidStrategyParams(t *testing.T) {
	cfg := testConfig(t)
	cfg.Strategies = map[string]config.StrategyConfig{
		"contrarian": {Enabled: true, Params: map[string]any{"buy_below": 80}},
	}
	store, err := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = New(cfg, nil, WithStore(store))
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestApp_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.TradesPath = filepath.Join(t.TempDir(), "missing.csv")
	a, _, _ := newTestApp(t, cfg)

	_, err := a.Prepare(context.Background())
	assert.True(t, errors.Is(err, core.ErrInputMissing))
}

func TestApp_NoOverlap(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "late_sentiment.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,value,classification,date\n1893456000,50,Neutral,2030-01-01\n"), 0644))
	cfg.Data.SentimentPath = path
	a, _, _ := newTestApp(t, cfg)

	_, err := a.Signal(context.Background())
	assert.True(t, errors.Is(err, core.ErrNoData))
}

func TestApp_FinishWritesMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = true
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "sentiq.prom")
	a, _, _ := newTestApp(t, cfg)
	ctx := context.Background()

	_, err := a.Backtest(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Finish(ctx, "backtest"))

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sentiq_backtests_total{status="success",strategy="momentum"} 1`)
	assert.Contains(t, string(data), `sentiq_signals_generated_total{action="BUY"} 1`)
}

func TestNew_BuildsStoreFromConfig(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, nil, WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	_, err = a.Signal(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.Output.Path, "runs", a.RunID(), report.FileSignal))
	assert.NoError(t, err)
}

func TestApp_BacktestAlerts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Alerts.Rules = []config.AlertRule{
		{Name: "any_days", Expr: "days > 0", Severity: "info", Message: "strategy traded"},
		{Name: "never", Expr: "days < 0", Severity: "critical", Message: "impossible"},
	}
	a, _, out := newTestApp(t, cfg)

	rep, err := a.Backtest(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Alerts, 3)
	assert.Equal(t, "any_days", rep.Alerts[0].Rule)
	assert.Equal(t, "contrarian", rep.Alerts[0].Subject)
	assert.Contains(t, out.String(), "[INFO] any_days (momentum): strategy traded")
}

func TestApp_InvalidAlertRule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Alerts.Rules = []config.AlertRule{{Name: "bad", Expr: "drawdown is deep"}}
	store, err := artifact.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = New(cfg, nil, WithStore(store))
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestApp_SetStrategies(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig(t))
	a.SetStrategies([]string{"risk_parity", "contrarian"})

	rep, err := a.Backtest(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, "risk_parity", rep.Results[0].Strategy)
	assert.Equal(t, "contrarian", rep.Results[1].Strategy)
}
