package risk_parity

import (
	"fmt"
	"math"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
	"github.com/newthinker/sentiq/internal/strategy"
	"github.com/shopspring/decimal"
)

// Rules size the position from sentiment volatility, then tilt it by the
// day's sentiment. Volatility is the sample stdev of the trailing Window scores.
type Rules struct {
	Window int

	HighVolatility  float64
	LowVolatility   float64
	HighVolPosition decimal.Decimal
	LowVolPosition  decimal.Decimal
	NeutralPosition decimal.Decimal

	FearAtOrBelow  float64
	GreedAtOrAbove float64
	FearTilt       decimal.Decimal
	GreedTilt      decimal.Decimal

	MinPosition decimal.Decimal
	MaxPosition decimal.Decimal
}

// DefaultRules returns the 10-day rules: 0.3/0.5/0.7 by volatility, x1.2 in
// fear, x0.8 in greed, clamped to [0.1, 0.9]
func DefaultRules() Rules {
	return Rules{
		Window:          10,
		HighVolatility:  15,
		LowVolatility:   5,
		HighVolPosition: decimal.RequireFromString("0.3"),
		LowVolPosition:  decimal.RequireFromString("0.7"),
		NeutralPosition: decimal.RequireFromString("0.5"),
		FearAtOrBelow:   30,
		GreedAtOrAbove:  70,
		FearTilt:        decimal.RequireFromString("1.2"),
		GreedTilt:       decimal.RequireFromString("0.8"),
		MinPosition:     decimal.RequireFromString("0.1"),
		MaxPosition:     decimal.RequireFromString("0.9"),
	}
}

// RiskParity recomputes its position from scratch every day
type RiskParity struct {
	rules Rules
}

// New creates a risk parity strategy with the default rules
func New() *RiskParity {
	return &RiskParity{rules: DefaultRules()}
}

func (r *RiskParity) Name() string {
	return "risk_parity"
}

func (r *RiskParity) Description() string {
	return fmt.Sprintf("Risk parity (%d-day sentiment volatility)", r.rules.Window)
}

func (r *RiskParity) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{Window: r.rules.Window}
}

func (r *RiskParity) Init(cfg strategy.Config) error {
	rules := r.rules
	var err error
	if rules.Window, err = cfg.Int("window", rules.Window); err != nil {
		return err
	}
	if rules.HighVolatility, err = cfg.Float("high_volatility", rules.HighVolatility); err != nil {
		return err
	}
	if rules.LowVolatility, err = cfg.Float("low_volatility", rules.LowVolatility); err != nil {
		return err
	}
	if rules.FearAtOrBelow, err = cfg.Float("fear_below", rules.FearAtOrBelow); err != nil {
		return err
	}
	if rules.GreedAtOrAbove, err = cfg.Float("greed_above", rules.GreedAtOrAbove); err != nil {
		return err
	}
	if rules.MinPosition, err = cfg.Decimal("min_position", rules.MinPosition); err != nil {
		return err
	}
	if rules.MaxPosition, err = cfg.Decimal("max_position", rules.MaxPosition); err != nil {
		return err
	}

	if rules.Window < 2 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk parity window must be at least 2, got %d", rules.Window))
	}
	if rules.LowVolatility > rules.HighVolatility {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk parity low_volatility %.2f exceeds high_volatility %.2f", rules.LowVolatility, rules.HighVolatility))
	}

	r.rules = rules
	return nil
}

// InitialPosition is unused: every decision starts from the volatility band
func (r *RiskParity) InitialPosition() decimal.Decimal {
	return decimal.Zero
}

func (r *RiskParity) Decide(ctx strategy.AnalysisContext) (strategy.Decision, error) {
	scores := ctx.Scores()
	if len(scores) < r.rules.Window {
		return strategy.Decision{}, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("risk parity needs %d days, got %d", r.rules.Window, len(scores)))
	}

	vol := indicator.SampleStdDev(scores[len(scores)-r.rules.Window:])
	if math.IsNaN(vol) {
		return strategy.Decision{}, core.ErrInsufficientData
	}

	var pos decimal.Decimal
	switch {
	case vol > r.rules.HighVolatility:
		pos = r.rules.HighVolPosition
	case vol < r.rules.LowVolatility:
		pos = r.rules.LowVolPosition
	default:
		pos = r.rules.NeutralPosition
	}

	action := core.ActionHold
	score := ctx.Day.SentimentScore
	switch {
	case score <= r.rules.FearAtOrBelow:
		pos = pos.Mul(r.rules.FearTilt)
		action = core.ActionBuy
	case score >= r.rules.GreedAtOrAbove:
		pos = pos.Mul(r.rules.GreedTilt)
		action = core.ActionSell
	}

	pos = decimal.Max(r.rules.MinPosition, decimal.Min(r.rules.MaxPosition, pos))

	return strategy.Decision{Action: action, Position: pos, Indicator: vol}, nil
}
