package momentum

import (
	"fmt"

	"github.com/newthinker/sentiq/internal/core"
	"github.com/newthinker/sentiq/internal/indicator"
	"github.com/newthinker/sentiq/internal/strategy"
	"github.com/shopspring/decimal"
)

// Rules are the momentum decision bands. Momentum is the day's score minus
// the trailing mean over Window days, today included.
type Rules struct {
	Window        int
	BuyBelow      float64
	SellAbove     float64
	Step          decimal.Decimal
	MaxPosition   decimal.Decimal
	MinPosition   decimal.Decimal
	StartPosition decimal.Decimal
}

// DefaultRules returns the 5-day, +/-5 point rules within [0.2, 0.8] starting at 0.5
func DefaultRules() Rules {
	return Rules{
		Window:        5,
		BuyBelow:      -5,
		SellAbove:     5,
		Step:          decimal.RequireFromString("0.1"),
		MaxPosition:   decimal.RequireFromString("0.8"),
		MinPosition:   decimal.RequireFromString("0.2"),
		StartPosition: decimal.RequireFromString("0.5"),
	}
}

// Momentum leans against short-term swings of sentiment around its mean
type Momentum struct {
	rules Rules
}

// New creates a momentum strategy with the default rules
func New() *Momentum {
	return &Momentum{rules: DefaultRules()}
}

func (m *Momentum) Name() string {
	return "momentum"
}

func (m *Momentum) Description() string {
	return fmt.Sprintf("Sentiment momentum (%d-day mean, +/-%.0f)", m.rules.Window, m.rules.SellAbove)
}

func (m *Momentum) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{Window: m.rules.Window}
}

func (m *Momentum) Init(cfg strategy.Config) error {
	r := m.rules
	var err error
	if r.Window, err = cfg.Int("window", r.Window); err != nil {
		return err
	}
	if r.BuyBelow, err = cfg.Float("buy_below", r.BuyBelow); err != nil {
		return err
	}
	if r.SellAbove, err = cfg.Float("sell_above", r.SellAbove); err != nil {
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

	if r.Window < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("momentum window must be positive, got %d", r.Window))
	}
	if r.MinPosition.GreaterThan(r.MaxPosition) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("momentum min_position %s exceeds max_position %s", r.MinPosition, r.MaxPosition))
	}

	m.rules = r
	return nil
}

func (m *Momentum) InitialPosition() decimal.Decimal {
	return m.rules.StartPosition
}

func (m *Momentum) Decide(ctx strategy.AnalysisContext) (strategy.Decision, error) {
	scores := ctx.Scores()
	means := indicator.SMA(scores, m.rules.Window)
	if len(means) == 0 {
		return strategy.Decision{}, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("momentum needs %d days, got %d", m.rules.Window, len(scores)))
	}

	momentum := ctx.Day.SentimentScore - means[len(means)-1]
	pos := ctx.Position

	switch {
	case momentum < m.rules.BuyBelow:
		pos = decimal.Min(m.rules.MaxPosition, pos.Add(m.rules.Step))
		return strategy.Decision{Action: core.ActionBuy, Position: pos, Indicator: momentum}, nil
	case momentum > m.rules.SellAbove:
		pos = decimal.Max(m.rules.MinPosition, pos.Sub(m.rules.Step))
		return strategy.Decision{Action: core.ActionSell, Position: pos, Indicator: momentum}, nil
	default:
		return strategy.Decision{Action: core.ActionHold, Position: pos, Indicator: momentum}, nil
	}
}
