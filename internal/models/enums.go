package models

// BillingCycle describes how often a subscription is charged.
type BillingCycle string

// Supported billing cycles.
const (
	CycleDaily   BillingCycle = "daily"
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid reports whether the cycle is one of the supported values.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleMonthly, CycleYearly:
		return true
	default:
		return false
	}
}

// SubscriptionStatus describes the lifecycle state of a subscription.
type SubscriptionStatus string

// Supported subscription statuses.
const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPaused    SubscriptionStatus = "paused"
	StatusExpired   SubscriptionStatus = "expired"
	StatusTrial     SubscriptionStatus = "trial"
)

// Valid reports whether the status is one of the supported values.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPaused, StatusExpired, StatusTrial:
		return true
	default:
		return false
	}
}

// ServiceCategory groups subscriptions for spend breakdowns.
type ServiceCategory string

// Supported service categories. CategoryOther is the default bucket.
const (
	CategoryEntertainment ServiceCategory = "entertainment"
	CategoryProductivity  ServiceCategory = "productivity"
	CategoryHealthFitness ServiceCategory = "health_fitness"
	CategoryEducation     ServiceCategory = "education"
	CategoryBusiness      ServiceCategory = "business"
	CategoryGaming        ServiceCategory = "gaming"
	CategoryNewsMedia     ServiceCategory = "news_media"
	CategoryShopping      ServiceCategory = "shopping"
	CategoryTravel        ServiceCategory = "travel"
	CategoryUtilities     ServiceCategory = "utilities"
	CategoryOther         ServiceCategory = "other"
)

// Valid reports whether the category is one of the supported values.
func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryEntertainment, CategoryProductivity, CategoryHealthFitness,
		CategoryEducation, CategoryBusiness, CategoryGaming, CategoryNewsMedia,
		CategoryShopping, CategoryTravel, CategoryUtilities, CategoryOther:
		return true
	default:
		return false
	}
}

// OCRStatus describes the processing state of an uploaded bill image.
type OCRStatus string

// Supported OCR processing states.
const (
	OCRProcessing OCRStatus = "processing"
	OCRCompleted  OCRStatus = "completed"
	OCRFailed     OCRStatus = "failed"
)

// Valid reports whether the status is one of the supported values.
func (s OCRStatus) Valid() bool {
	switch s {
	case OCRProcessing, OCRCompleted, OCRFailed:
		return true
	default:
		return false
	}
}
