package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scribo-ai/server/internal/domain"
)

// SubscriptionRepositoryPG implements domain.SubscriptionRepository backed by PostgreSQL.
type SubscriptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepositoryPG.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepositoryPG {
	return &SubscriptionRepositoryPG{pool: pool}
}

// GetByUserID fetches the subscription record for a user.
func (r *SubscriptionRepositoryPG) GetByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	row := r.pool.QueryRow(ctx, `
SELECT user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end, created_at, updated_at
FROM user_subscriptions
WHERE user_id = $1`, userID)
	return scanSubscription(row)
}

// Upsert inserts or replaces the subscription record keyed by user id.
func (r *SubscriptionRepositoryPG) Upsert(ctx context.Context, rec *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error) {
	query := `
INSERT INTO user_subscriptions (user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE
SET stripe_customer_id = EXCLUDED.stripe_customer_id,
    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
    stripe_price_id = EXCLUDED.stripe_price_id,
    stripe_current_period_end = EXCLUDED.stripe_current_period_end,
    updated_at = NOW()
RETURNING user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end, created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query,
		rec.UserID,
		rec.CustomerID,
		rec.SubscriptionID,
		rec.PriceID,
		rec.CurrentPeriodEnd,
	)
	return scanSubscription(row)
}

// UpdateBySubscriptionID refreshes price and period end on a renewal.
func (r *SubscriptionRepositoryPG) UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, currentPeriodEnd time.Time) (*domain.SubscriptionRecord, error) {
	query := `
UPDATE user_subscriptions
SET stripe_price_id = $2,
    stripe_current_period_end = $3,
    updated_at = NOW()
WHERE stripe_subscription_id = $1
RETURNING user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end, created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query, subscriptionID, priceID, currentPeriodEnd)
	return scanSubscription(row)
}

func scanSubscription(row pgx.Row) (*domain.SubscriptionRecord, error) {
	var s domain.SubscriptionRecord
	if err := row.Scan(&s.UserID, &s.CustomerID, &s.SubscriptionID, &s.PriceID, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

var _ domain.SubscriptionRepository = (*SubscriptionRepositoryPG)(nil)
