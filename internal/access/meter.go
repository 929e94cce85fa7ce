package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/scribo-ai/server/internal/domain"
)

// FreeTierLimit is the number of free generations before the gate
// requires an active subscription.
const FreeTierLimit = 5

// Meter tracks free-tier usage per user.
type Meter struct {
	usage domain.UsageRepository
}

// NewMeter creates a Meter over the given usage repository.
func NewMeter(usage domain.UsageRepository) *Meter {
	return &Meter{usage: usage}
}

// CheckLimit reports whether the user still has free-tier quota.
// A missing record means the user has not generated anything yet.
func (m *Meter) CheckLimit(ctx context.Context, userID string) (bool, error) {
	rec, err := m.usage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("load usage: %w", err)
	}
	return rec.Count < FreeTierLimit, nil
}

// Increment records one consumed generation. Enforcement of the limit
// is the caller's job via CheckLimit; this method never refuses.
func (m *Meter) Increment(ctx context.Context, userID string) error {
	if _, err := m.usage.Increment(ctx, userID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// Current returns the stored counter, zero for absent records.
func (m *Meter) Current(ctx context.Context, userID string) (int, error) {
	rec, err := m.usage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load usage: %w", err)
	}
	return rec.Count, nil
}
