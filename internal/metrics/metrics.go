package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics of a run. It is exported through a
// textfile at the end of the run, so no runtime collectors are registered.
type Registry struct {
	*prometheus.Registry

	// Ingestion metrics
	rowsLoaded  *prometheus.CounterVec
	rowsSkipped *prometheus.CounterVec
	daysMerged  prometheus.Gauge

	// Backtest metrics
	backtestsTotal   *prometheus.CounterVec
	backtestDuration *prometheus.HistogramVec
	totalReturn      *prometheus.GaugeVec
	sharpeRatio      *prometheus.GaugeVec
	maxDrawdown      *prometheus.GaugeVec

	// Pipeline metrics
	signalsGenerated *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		Registry: reg,

		rowsLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiq_rows_loaded_total",
				Help: "Total number of input rows loaded",
			},
			[]string{"source"},
		),

		rowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentiq_rows_skipped_total",
				Help: "Total number of input rows skipped as unusable",
			},
			[]string{"source"},
		),

		daysMerged: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentiq_days_merged",
				Help: "Number of days present in both sentiment and trade data",
			},
		),
	}

	reg.MustRegister(r.rowsLoaded)
	reg.MustRegister(r.rowsSkipped)
	reg.MustRegister(r.daysMerged)

	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiq_backtests_total",
			Help: "Total number of strategy backtests",
		},
		[]string{"strategy", "status"},
	)
	r.backtestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiq_backtest_duration_seconds",
			Help:    "Strategy backtest duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"strategy"},
	)
	r.totalReturn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentiq_strategy_total_return_percent",
			Help: "Total return of the last backtest, in percent",
		},
		[]string{"strategy"},
	)
	r.sharpeRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentiq_strategy_sharpe_ratio",
			Help: "Annualized Sharpe ratio of the last backtest",
		},
		[]string{"strategy"},
	)
	r.maxDrawdown = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentiq_strategy_max_drawdown_percent",
			Help: "Maximum drawdown of the last backtest, in percent",
		},
		[]string{"strategy"},
	)
	r.signalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiq_signals_generated_total",
			Help: "Total number of trading signals generated",
		},
		[]string{"action"},
	)
	r.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiq_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.totalReturn)
	reg.MustRegister(r.sharpeRatio)
	reg.MustRegister(r.maxDrawdown)
	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.stageDuration)

	return r
}

// RecordRows records loaded and skipped rows of an input source.
func (r *Registry) RecordRows(source string, loaded, skipped int) {
	r.rowsLoaded.WithLabelValues(source).Add(float64(loaded))
	r.rowsSkipped.WithLabelValues(source).Add(float64(skipped))
}

// SetDaysMerged sets the size of the merged series.
func (r *Registry) SetDaysMerged(n int) {
	r.daysMerged.Set(float64(n))
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(strategy, status string, duration float64) {
	r.backtestsTotal.WithLabelValues(strategy, status).Inc()
	r.backtestDuration.WithLabelValues(strategy).Observe(duration)
}

// RecordStrategyStats publishes the headline statistics of a backtest.
func (r *Registry) RecordStrategyStats(strategy string, totalReturn, sharpe, maxDrawdown float64) {
	r.totalReturn.WithLabelValues(strategy).Set(totalReturn)
	r.sharpeRatio.WithLabelValues(strategy).Set(sharpe)
	r.maxDrawdown.WithLabelValues(strategy).Set(maxDrawdown)
}

// RecordSignal records a generated signal.
func (r *Registry) RecordSignal(action string) {
	r.signalsGenerated.WithLabelValues(action).Inc()
}

// RecordStage records the duration of a pipeline stage.
func (r *Registry) RecordStage(stage string, duration float64) {
	r.stageDuration.WithLabelValues(stage).Observe(duration)
}

// WriteTextfile writes all metrics in the text exposition format, for
// pickup by a node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
