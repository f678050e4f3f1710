package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/sentiq/internal/analysis"
	"github.com/newthinker/sentiq/internal/backtest"
	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/signal"
	"github.com/newthinker/sentiq/internal/storage/artifact"
	"go.uber.org/zap"
)

// Artifact file names within a run
const (
	FileDays         = "merged_daily.csv"
	FileCategories   = "category_performance.csv"
	FileCorrelations = "correlations.csv"
	FileInsights     = "insights.json"
	FileComparison   = "strategy_comparison.csv"
	FileSignal       = "signal.json"
	FileManifest     = "manifest.json"
)

// TradesFile names the trade log of one strategy
func TradesFile(strategy string) string {
	return "trades_" + strategy + ".csv"
}

// Publisher writes the artifacts of one run under runs/<run id>/. Each
// Publish call renders all of its files before storing any of them.
type Publisher struct {
	store   artifact.Store
	logger  *zap.Logger
	runID   string
	started time.Time
	written []string
}

// NewPublisher creates a publisher for a fresh run id
func NewPublisher(store artifact.Store, logger ...*zap.Logger) *Publisher {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Publisher{
		store:   store,
		logger:  l,
		runID:   uuid.NewString(),
		started: time.Now().UTC(),
	}
}

// RunID returns the identifier of this run
func (p *Publisher) RunID() string {
	return p.runID
}

// Prefix returns the store path all artifacts of this run live under
func (p *Publisher) Prefix() string {
	return path.Join("runs", p.runID)
}

// Written returns the store paths published so far
func (p *Publisher) Written() []string {
	return append([]string(nil), p.written...)
}

type renderer struct {
	name   string
	render func(w io.Writer) error
}

func csvFile(name string, render func(w io.Writer) error) renderer {
	return renderer{name: name, render: render}
}

func jsonFile(name string, v any) renderer {
	return renderer{name: name, render: func(w io.Writer) error {
		data, err := marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}}
}

func (p *Publisher) publish(ctx context.Context, files ...renderer) error {
	rendered := make([][]byte, len(files))
	for i, f := range files {
		var buf bytes.Buffer
		if err := f.render(&buf); err != nil {
			return core.WrapError(core.ErrOutputFailed, fmt.Errorf("rendering %s: %w", f.name, err))
		}
		rendered[i] = buf.Bytes()
	}

	for i, f := range files {
		key := path.Join(p.Prefix(), f.name)
		if err := p.store.Put(ctx, key, rendered[i]); err != nil {
			return core.WrapError(core.ErrOutputFailed, fmt.Errorf("storing %s: %w", key, err))
		}
		p.written = append(p.written, key)
		p.logger.Debug("artifact written", zap.String("path", key), zap.Int("bytes", len(rendered[i])))
	}
	return nil
}

// PublishDays stores the merged daily series
func (p *Publisher) PublishDays(ctx context.Context, days []core.DailyRecord) error {
	return p.publish(ctx, csvFile(FileDays, func(w io.Writer) error {
		return WriteDaysCSV(w, days)
	}))
}

// PublishAnalysis stores the category table, the correlation matrix and the insights
func (p *Publisher) PublishAnalysis(ctx context.Context, in *analysis.Insights, m analysis.Matrix) error {
	return p.publish(ctx,
		csvFile(FileCategories, func(w io.Writer) error {
			return WriteCategoriesCSV(w, in.Categories)
		}),
		csvFile(FileCorrelations, func(w io.Writer) error {
			return WriteCorrelationsCSV(w, m)
		}),
		jsonFile(FileInsights, NewInsightsDoc(in, analysis.SentimentCorrelations(m))),
	)
}

// PublishBacktest stores each strategy's trade log and the comparison table
func (p *Publisher) PublishBacktest(ctx context.Context, results []*backtest.Result, ranking backtest.Ranking) error {
	files := make([]renderer, 0, len(results)+1)
	for _, r := range results {
		trades := r.Trades
		files = append(files, csvFile(TradesFile(r.Strategy), func(w io.Writer) error {
			return WriteTradesCSV(w, trades)
		}))
	}
	files = append(files, csvFile(FileComparison, func(w io.Writer) error {
		return WriteComparisonCSV(w, ranking)
	}))
	return p.publish(ctx, files...)
}

// PublishSignal stores the current signal
func (p *Publisher) PublishSignal(ctx context.Context, s *signal.Signal) error {
	return p.publish(ctx, jsonFile(FileSignal, NewSignalDoc(s)))
}

// Manifest describes a finished run
type Manifest struct {
	RunID     string    `json:"run_id"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"started_at"`
	Files     []string  `json:"files"`
}

// Finish stores the manifest listing every artifact of the run
func (p *Publisher) Finish(ctx context.Context, command string) error {
	files := make([]string, len(p.written))
	for i, key := range p.written {
		files[i] = path.Base(key)
	}
	sort.Strings(files)

	err := p.publish(ctx, jsonFile(FileManifest, Manifest{
		RunID:     p.runID,
		Command:   command,
		StartedAt: p.started,
		Files:     files,
	}))
	if err != nil {
		return err
	}

	p.logger.Info("run artifacts published",
		zap.String("run_id", p.runID),
		zap.Int("files", len(files)),
	)
	return nil
}
