package advisor

import "strings"

// Intent labels stored with each conversation record.
const (
	intentGreeting          = "greeting"
	intentSpendingQuery     = "spending_query"
	intentListSubscriptions = "list_subscriptions"
	intentCancelAdvice      = "cancel_advice"
	intentUnknown           = "unknown"
)

var intentKeywords = []struct {
	intent     string
	confidence float64
	keywords   []string
}{
	{intentSpendingQuery, 0.9, []string{"spend", "spending", "cost", "how much", "monthly total"}},
	{intentCancelAdvice, 0.8, []string{"cancel", "too expensive", "save money", "cut"}},
	{intentListSubscriptions, 0.8, []string{"list", "show", "what subscriptions", "which services"}},
	{intentGreeting, 0.7, []string{"hello", "hi ", "hey"}},
}

// classify maps a free-form message to an intent label and a
// confidence score. First match wins; order reflects specificity.
func classify(message string) (string, float64) {
	lower := " " + strings.ToLower(strings.TrimSpace(message)) + " "
	for _, entry := range intentKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.intent, entry.confidence
			}
		}
	}
	return intentUnknown, 0.3
}
