package models

// CategoryStat is one bucket of the per-category spend breakdown.
type CategoryStat struct {
	Count    int     `json:"count"`
	Spending float64 `json:"spending"`
}

// Overview summarizes one user's subscriptions: counts across all
// statuses, the monthly-equivalent spend over active subscriptions, and
// the spend broken down by category.
type Overview struct {
	User                   *User                   `json:"user"`
	TotalSubscriptions     int                     `json:"total_subscriptions"`
	ActiveSubscriptions    int                     `json:"active_subscriptions"`
	MonthlySpending        float64                 `json:"monthly_spending"`
	SubscriptionCategories map[string]CategoryStat `json:"subscription_categories"`
}
