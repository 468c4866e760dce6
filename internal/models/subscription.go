package models

import "time"

// Subscription is the main domain record: one recurring service paid for
// by one user. NextBillingDate is kept as a YYYY-MM-DD string, nil when
// unknown, matching the stored schema.
type Subscription struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	ServiceName     string             `json:"service_name"`
	Price           float64            `json:"price"`
	Currency        string             `json:"currency"`
	BillingCycle    BillingCycle       `json:"billing_cycle"`
	Category        ServiceCategory    `json:"category"`
	Status          SubscriptionStatus `json:"status"`
	NextBillingDate *string            `json:"next_billing_date,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// SubscriptionUpdate carries a partial subscription update applied as a
// field merge: nil fields keep their stored value, non-nil fields
// overwrite it. UpdatedAt is refreshed by the store on every merge.
type SubscriptionUpdate struct {
	ServiceName     *string             `json:"service_name,omitempty"`
	Price           *float64            `json:"price,omitempty"`
	Currency        *string             `json:"currency,omitempty"`
	BillingCycle    *BillingCycle       `json:"billing_cycle,omitempty"`
	Category        *ServiceCategory    `json:"category,omitempty"`
	Status          *SubscriptionStatus `json:"status,omitempty"`
	NextBillingDate *string             `json:"next_billing_date,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// DummySubscription receives new-subscription data from a JSON request
// before validation and conversion into a Subscription.
type DummySubscription struct {
	ServiceName     string  `json:"service_name" validate:"required,max=100"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Currency        string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	BillingCycle    string  `json:"billing_cycle" validate:"required"`
	Category        string  `json:"category,omitempty"`
	Status          string  `json:"status,omitempty"`
	NextBillingDate *string `json:"next_billing_date,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// DefaultCurrency is assumed when a request does not name one.
const DefaultCurrency = "CNY"
