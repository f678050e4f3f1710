package prepare

import (
	"sort"
	"time"

	"github.com/newthinker/sentiq/internal/core"
	"go.uber.org/zap"
)

// Preparer turns raw sentiment points and fills into the merged daily series
type Preparer struct {
	logger *zap.Logger
}

// New creates a Preparer
func New(logger ...*zap.Logger) *Preparer {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Preparer{logger: l}
}

// Prepare aggregates the fills by day and inner-joins them with the sentiment series
func (p *Preparer) Prepare(points []core.SentimentPoint, fills []core.Fill) []core.DailyRecord {
	daily := AggregateDaily(fills)
	merged := Merge(points, daily)

	p.logger.Info("prepared daily series",
		zap.Int("sentiment_days", len(points)),
		zap.Int("trading_days", len(daily)),
		zap.Int("merged_days", len(merged)),
	)
	if len(merged) < len(daily) {
		p.logger.Debug("dropped trading days without sentiment",
			zap.Int("dropped", len(daily)-len(merged)))
	}

	return merged
}

// Merge inner-joins sentiment points and daily metrics on calendar date.
// Dates present on one side only are dropped; a repeated sentiment date keeps
// its first occurrence. The result is in ascending date order.
func Merge(points []core.SentimentPoint, daily []core.DailyMetrics) []core.DailyRecord {
	byDate := make(map[string]core.DailyMetrics, len(daily))
	for _, d := range daily {
		byDate[dateKey(d.Date)] = d
	}

	seen := make(map[string]struct{}, len(points))
	merged := make([]core.DailyRecord, 0, min(len(points), len(daily)))
	for _, pt := range points {
		key := dateKey(pt.Date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		m, ok := byDate[key]
		if !ok {
			continue
		}
		merged = append(merged, core.DailyRecord{
			Date:              core.DateOf(pt.Date),
			SentimentScore:    pt.Value,
			SentimentCategory: core.Categorize(pt.Value),
			DailyMetrics:      m,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

func dateKey(t time.Time) string {
	return t.Format(core.DateLayout)
}
