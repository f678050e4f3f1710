package prepare

import (
	"math"
	"sort"
	"time"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/shopspring/decimal"
)

// dayBucket accumulates the fills of one calendar date
type dayBucket struct {
	pnlSum, volumeSum, feeSum float64
	pnlCount, volumeCount     int
	wins, rows                int
	accounts                  map[string]struct{}
}

func (b *dayBucket) add(f core.Fill) {
	b.rows++
	if !math.IsNaN(f.ClosedPnL) {
		b.pnlSum += f.ClosedPnL
		b.pnlCount++
		if f.ClosedPnL > 0 {
			b.wins++
		}
	}
	if !math.IsNaN(f.SizeUSD) {
		b.volumeSum += f.SizeUSD
		b.volumeCount++
	}
	if !math.IsNaN(f.Fee) {
		b.feeSum += f.Fee
	}
	if f.Account != "" {
		b.accounts[f.Account] = struct{}{}
	}
}

func (b *dayBucket) metrics(date time.Time) core.DailyMetrics {
	totalPnL := round2(b.pnlSum)
	return core.DailyMetrics{
		Date:          date,
		TotalPnL:      totalPnL,
		AvgPnL:        round2(ratio(b.pnlSum, b.pnlCount)),
		TradeCount:    b.pnlCount,
		TotalVolume:   round2(b.volumeSum),
		AvgTradeSize:  round2(ratio(b.volumeSum, b.volumeCount)),
		TotalFees:     round2(b.feeSum),
		UniqueTraders: len(b.accounts),
		// Rows with a missing PnL count as non-winning trades
		WinRate:    float64(b.wins) / float64(b.rows),
		Profitable: totalPnL > 0,
	}
}

// AggregateDaily buckets fills by calendar date and returns one row per
// date in ascending order. Missing amounts are left out of sums and means.
func AggregateDaily(fills []core.Fill) []core.DailyMetrics {
	buckets := make(map[string]*dayBucket)
	dates := make(map[string]time.Time)
	for _, f := range fills {
		d := f.Date()
		key := dateKey(d)
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{accounts: make(map[string]struct{})}
			buckets[key] = b
			dates[key] = d
		}
		b.add(f)
	}

	days := make([]core.DailyMetrics, 0, len(buckets))
	for key, b := range buckets {
		days = append(days, b.metrics(dates[key]))
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func ratio(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// round2 rounds half-to-even at two decimals
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
