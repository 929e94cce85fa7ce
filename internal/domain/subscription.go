package domain

import "time"

// SubscriptionRecord mirrors the billing provider's view of a user's
// paid subscription. At most one row per user; a lapsed subscription is
// kept and simply stops counting as active once CurrentPeriodEnd passes.
type SubscriptionRecord struct {
	UserID           string
	CustomerID       string
	SubscriptionID   string
	PriceID          string
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
