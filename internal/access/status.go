package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scribo-ai/server/internal/domain"
)

// GraceWindow is the tolerance added to a subscription's period end
// before it stops counting as active, absorbing renewal-webhook lag.
const GraceWindow = 24 * time.Hour

// Status derives whether a user currently holds an active subscription.
type Status struct {
	subs domain.SubscriptionRepository
	now  func() time.Time
}

// NewStatus creates a Status over the given subscription repository.
func NewStatus(subs domain.SubscriptionRepository) *Status {
	return &Status{subs: subs, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Status) WithClock(now func() time.Time) *Status {
	s.now = now
	return s
}

// IsActive reports whether the user's subscription is paid through
// (period end plus the grace window is still in the future). Users
// without a record are simply not subscribed.
func (s *Status) IsActive(ctx context.Context, userID string) (bool, error) {
	rec, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load subscription: %w", err)
	}
	return rec.CurrentPeriodEnd.Add(GraceWindow).After(s.now()), nil
}
