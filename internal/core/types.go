package core

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used for join keys and outputs
const DateLayout = "2006-01-02"

// SentimentPoint is one row of the fear/greed index series
type SentimentPoint struct {
	Date           time.Time // calendar date, UTC midnight
	Timestamp      time.Time
	Value          float64
	Classification string // provider label, informational only
}

// Fill is one executed trade from the trade ledger.
// Numeric fields that failed to parse hold NaN.
type Fill struct {
	Account    string
	Coin       string
	Time       time.Time // local wall-clock time of execution
	Price      float64
	SizeTokens float64
	SizeUSD    float64
	ClosedPnL  float64
	Fee        float64
}

// Date returns the calendar date the fill belongs to
func (f Fill) Date() time.Time {
	return DateOf(f.Time)
}

// DailyMetrics holds per-day aggregates of the trade ledger
type DailyMetrics struct {
	Date          time.Time
	TotalPnL      float64
	AvgPnL        float64 // NaN when no fill of the day has a PnL
	TradeCount    int
	TotalVolume   float64
	AvgTradeSize  float64
	TotalFees     float64
	UniqueTraders int
	WinRate       float64
	Profitable    bool
}

// DailyRecord is one row of the merged sentiment/trading series
type DailyRecord struct {
	Date              time.Time
	SentimentScore    float64
	SentimentCategory Category
	DailyMetrics
}

// HasAvgPnL reports whether AvgPnL is defined
func (d DailyRecord) HasAvgPnL() bool {
	return !math.IsNaN(d.AvgPnL)
}

// DateOf truncates t to its calendar date, keeping the wall clock of t's location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Action represents a trading action
type Action string

const (
	ActionBuy        Action = "BUY"
	ActionSell       Action = "SELL"
	ActionHold       Action = "HOLD"
	ActionStrongBuy  Action = "STRONG BUY"
	ActionStrongSell Action = "STRONG SELL"
)

// Confidence is a coarse confidence label attached to a signal
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)
