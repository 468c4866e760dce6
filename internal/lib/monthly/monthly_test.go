package monthly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subtrackhq/subtrack/internal/models"
)

func TestEquivalent_TableTests(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		cycle models.BillingCycle
		want  float64
	}{
		{name: "monthly is unchanged", price: 15.99, cycle: models.CycleMonthly, want: 15.99},
		{name: "yearly divided by 12", price: 1200, cycle: models.CycleYearly, want: 100},
		{name: "weekly times 4.33", price: 10, cycle: models.CycleWeekly, want: 43.3},
		{name: "daily times 30", price: 2, cycle: models.CycleDaily, want: 60},
		{name: "empty cycle treated as monthly", price: 9.99, cycle: "", want: 9.99},
		{name: "unrecognized cycle treated as monthly", price: 9.99, cycle: "lifetime", want: 9.99},
		{name: "zero price", price: 0, cycle: models.CycleYearly, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Equivalent(tt.price, tt.cycle)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEquivalent_Deterministic(t *testing.T) {
	first := Equivalent(140, models.CycleWeekly)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Equivalent(140, models.CycleWeekly))
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 255.99, Round2(255.99000000000001))
	assert.Equal(t, 43.3, Round2(43.3))
	assert.Equal(t, 0.67, Round2(2.0/3.0))
	assert.Equal(t, 8.33, Round2(100.0/12.0))
}
