package contrarian

import (
	"fmt"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/strategy"
	"github.com/shopspring/decimal"
)

// Rules are the contrarian decision bands: accumulate in fear, trim in greed
type Rules struct {
	BuyAtOrBelow  float64
	SellAtOrAbove float64
	Step          decimal.Decimal
	MaxPosition   decimal.Decimal
	MinPosition   decimal.Decimal
	StartPosition decimal.Decimal
}

// DefaultRules returns the standard 30/70 bands stepping by 0.1 within [0.2, 0.8]
func DefaultRules() Rules {
	return Rules{
		BuyAtOrBelow:  30,
		SellAtOrAbove: 70,
		Step:          decimal.RequireFromString("0.1"),
		MaxPosition:   decimal.RequireFromString("0.8"),
		MinPosition:   decimal.RequireFromString("0.2"),
		StartPosition: decimal.Zero,
	}
}

// Contrarian buys fear and sells greed in fixed steps
type Contrarian struct {
	rules Rules
}

// New creates a contrarian strategy with the default rules
func New() *Contrarian {
	return &Contrarian{rules: DefaultRules()}
}

func (c *Contrarian) Name() string {
	return "contrarian"
}

func (c *Contrarian) Description() string {
	return fmt.Sprintf("Contrarian (buy <= %.0f, sell >= %.0f)", c.rules.BuyAtOrBelow, c.rules.SellAtOrAbove)
}

func (c *Contrarian) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{Window: 1}
}

func (c *Contrarian) Init(cfg strategy.Config) error {
	r := c.rules
	var err error
	if r.BuyAtOrBelow, err = cfg.Float("buy_below", r.BuyAtOrBelow); err != nil {
		return err
	}
	if r.SellAtOrAbove, err = cfg.Float("sell_above", r.SellAtOrAbove); err != nil {
		return err
	}
	if r.Step, err = cfg.Decimal("step", r.Step); err != nil {
		return err
	}
	if r.MaxPosition, err = cfg.Decimal("max_position", r.MaxPosition); err != nil {
		return err
	}
	if r.MinPosition, err = cfg.Decimal("min_position", r.MinPosition); err != nil {
		return err
	}
	if r.StartPosition, err = cfg.Decimal("initial_position", r.StartPosition); err != nil {
		return err
	}

	if r.BuyAtOrBelow >= r.SellAtOrAbove {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("contrarian buy_below %.2f must be below sell_above %.2f", r.BuyAtOrBelow, r.SellAtOrAbove))
	}
	if r.MinPosition.GreaterThan(r.MaxPosition) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("contrarian min_position %s exceeds max_position %s", r.MinPosition, r.MaxPosition))
	}

	c.rules = r
	return nil
}

func (c *Contrarian) InitialPosition() decimal.Decimal {
	return c.rules.StartPosition
}

// Decide steps the position toward the band the score falls in. A step that
// would leave [MinPosition, MaxPosition] is skipped, but the branch's action
// is still reported.
func (c *Contrarian) Decide(ctx strategy.AnalysisContext) (strategy.Decision, error) {
	score := ctx.Day.SentimentScore
	pos := ctx.Position

	switch {
	case score <= c.rules.BuyAtOrBelow:
		if next := pos.Add(c.rules.Step); next.LessThanOrEqual(c.rules.MaxPosition) {
			pos = next
		}
		return strategy.Decision{Action: core.ActionBuy, Position: pos, Indicator: score}, nil
	case score >= c.rules.SellAtOrAbove:
		if next := pos.Sub(c.rules.Step); next.GreaterThanOrEqual(c.rules.MinPosition) {
			pos = next
		}
		return strategy.Decision{Action: core.ActionSell, Position: pos, Indicator: score}, nil
	default:
		return strategy.Decision{Action: core.ActionHold, Position: pos, Indicator: score}, nil
	}
}
