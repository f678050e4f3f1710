package strategy

import (
	"fmt"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Config holds strategy configuration
type Config struct {
	Enabled bool
	Params  map[string]any
}

// Float reads a numeric param, falling back to def when absent
func (c Config) Float(key string, def float64) (float64, error) {
	raw, ok := c.Params[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("param %s: %w", key, err))
	}
	return v, nil
}

// Int reads an integer param, falling back to def when absent
func (c Config) Int(key string, def int) (int, error) {
	raw, ok := c.Params[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("param %s: %w", key, err))
	}
	return v, nil
}

// Decimal reads a numeric param as an exact decimal
func (c Config) Decimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw, ok := c.Params[key]
	if !ok || raw == nil {
		return def, nil
	}
	if s, isString := raw.(string); isString {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("param %s: %w", key, err))
		}
		return d, nil
	}
	v, err := c.Float(key, 0)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(v), nil
}

// DataRequirements specifies what data a strategy needs
type DataRequirements struct {
	Window int // trailing days, including the current one, needed per decision
}

// AnalysisContext provides one day of data to a strategy
type AnalysisContext struct {
	Day      core.DailyRecord
	History  []core.DailyRecord // trailing window ending with Day
	Position decimal.Decimal    // position size carried from the previous day
}

// Scores returns the sentiment scores of the history window
func (c AnalysisContext) Scores() []float64 {
	out := make([]float64, len(c.History))
	for i, d := range c.History {
		out[i] = d.SentimentScore
	}
	return out
}

// Decision is a strategy's output for one day
type Decision struct {
	Action    core.Action
	Position  decimal.Decimal
	Indicator float64 // derived signal the rule was applied to
}

// Strategy sizes a position from the day's sentiment
type Strategy interface {
	Name() string
	Description() string
	RequiredData() DataRequirements
	Init(cfg Config) error
	InitialPosition() decimal.Decimal
	Decide(ctx AnalysisContext) (Decision, error)
}
