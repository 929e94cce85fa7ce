package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scribo-ai/server/internal/domain"
)

// UsageRepositoryPG implements domain.UsageRepository backed by PostgreSQL.
type UsageRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUsageRepository creates a new UsageRepositoryPG.
func NewUsageRepository(pool *pgxpool.Pool) *UsageRepositoryPG {
	return &UsageRepositoryPG{pool: pool}
}

// Get fetches the usage counter for a user.
func (r *UsageRepositoryPG) Get(ctx context.Context, userID string) (*domain.UsageRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, count, created_at, updated_at FROM usage_records WHERE user_id = $1`, userID)
	return scanUsage(row)
}

// Increment upserts the counter for a user. Absent rows start at 1.
// There is deliberately no upper bound here; the access gate enforces
// the free-tier limit before callers reach this method.
func (r *UsageRepositoryPG) Increment(ctx context.Context, userID string) (*domain.UsageRecord, error) {
	query := `
INSERT INTO usage_records (user_id, count)
VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE
SET count = usage_records.count + 1,
    updated_at = NOW()
RETURNING user_id, count, created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query, userID)
	return scanUsage(row)
}

func scanUsage(row pgx.Row) (*domain.UsageRecord, error) {
	var u domain.UsageRecord
	if err := row.Scan(&u.UserID, &u.Count, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
