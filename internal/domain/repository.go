package domain

import (
	"context"
	"time"
)

// UsageRepository defines persistence for per-user usage counters.
type UsageRepository interface {
	Get(ctx context.Context, userID string) (*UsageRecord, error)
	// Increment upserts the counter: absent rows start at 1.
	Increment(ctx context.Context, userID string) (*UsageRecord, error)
}

// SubscriptionRepository defines persistence for subscription records.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*SubscriptionRecord, error)
	// Upsert inserts or replaces the record keyed by user id. Webhook
	// deliveries are at-least-once, so replays must not create duplicates.
	Upsert(ctx context.Context, rec *SubscriptionRecord) (*SubscriptionRecord, error)
	// UpdateBySubscriptionID refreshes the renewable fields on the record
	// matched by the provider subscription reference. Returns ErrNotFound
	// when no such record exists.
	UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, currentPeriodEnd time.Time) (*SubscriptionRecord, error)
}
