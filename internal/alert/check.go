package alert

// Alert is a rule that fired for one subject
type Alert struct {
	Rule    string
	Subject string
	Message string
}

// Check evaluates every rule against one subject's metrics and returns the
// alerts that fired, in rule order.
func Check(rules []Rule, subject string, metrics map[string]float64) []Alert {
	var fired []Alert
	for _, rule := range rules {
		if !rule.Evaluate(metrics) {
			continue
		}
		fired = append(fired, Alert{
			Rule:    rule.Name,
			Subject: subject,
			Message: rule.FormatMessage(subject, metrics),
		})
	}
	return fired
}
