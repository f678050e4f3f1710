package alert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule defines an alert rule over a set of named statistics, e.g.
// "max_drawdown < -20".
type Rule struct {
	Name     string
	Expr     string
	Severity string
	Message  string
}

// Simple expression grammar: "metric op value"
// Supports: >, <, >=, <=, ==, !=
var exprPattern = regexp.MustCompile(`^(\w+)\s*(>=|<=|==|!=|>|<)\s*(-?[\d.]+)$`)

type condition struct {
	metric    string
	op        string
	threshold float64
}

func (r Rule) parse() (condition, error) {
	matches := exprPattern.FindStringSubmatch(strings.TrimSpace(r.Expr))
	if len(matches) != 4 {
		return condition{}, fmt.Errorf("alert %s: cannot parse expression %q", r.Name, r.Expr)
	}
	threshold, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return condition{}, fmt.Errorf("alert %s: threshold %q: %w", r.Name, matches[3], err)
	}
	return condition{metric: matches[1], op: matches[2], threshold: threshold}, nil
}

// Validate reports whether the rule's expression can be parsed
func (r Rule) Validate() error {
	_, err := r.parse()
	return err
}

// Evaluate evaluates the rule expression against metrics. Unparseable rules
// and metrics that are absent never fire.
func (r Rule) Evaluate(metrics map[string]float64) bool {
	c, err := r.parse()
	if err != nil {
		return false
	}

	value, exists := metrics[c.metric]
	if !exists {
		return false
	}

	switch c.op {
	case ">":
		return value > c.threshold
	case "<":
		return value < c.threshold
	case ">=":
		return value >= c.threshold
	case "<=":
		return value <= c.threshold
	case "==":
		return value == c.threshold
	case "!=":
		return value != c.threshold
	default:
		return false
	}
}

// FormatMessage formats the alert message for a subject, including the
// observed value.
func (r Rule) FormatMessage(subject string, metrics map[string]float64) string {
	msg := fmt.Sprintf("[%s] %s (%s): %s", strings.ToUpper(r.Severity), r.Name, subject, r.Message)
	if c, err := r.parse(); err == nil {
		if v, ok := metrics[c.metric]; ok {
			msg += fmt.Sprintf(" [%s=%.4g]", c.metric, v)
		}
	}
	return msg
}
