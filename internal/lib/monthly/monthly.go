// Package monthly normalizes subscription prices across billing cycles
// into a common per-month figure so that they can be aggregated.
package monthly

import (
	"math"

	"github.com/subtrackhq/subtrack/internal/models"
)

// Fixed multipliers, not calendar-accurate day counts. Dashboards and the
// chat advisor depend on these exact constants; do not change them
// without a product decision.
const (
	weeklyFactor = 4.33
	dailyFactor  = 30
)

// Equivalent converts a price charged at the given cycle into its
// monthly-equivalent figure. An unrecognized or empty cycle is treated
// as monthly.
func Equivalent(price float64, cycle models.BillingCycle) float64 {
	switch cycle {
	case models.CycleYearly:
		return price / 12
	case models.CycleWeekly:
		return price * weeklyFactor
	case models.CycleDaily:
		return price * dailyFactor
	default:
		return price
	}
}

// Round2 rounds to two decimal places, the precision used for all spend
// figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
