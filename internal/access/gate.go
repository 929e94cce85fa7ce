package access

import "context"

// Gate combines the free-tier meter and the subscription status into a
// single allow/deny decision. It holds no state of its own and is
// re-evaluated on every request.
type Gate struct {
	Meter  *Meter
	Status *Status
}

// NewGate creates a Gate over the given meter and status checker.
func NewGate(meter *Meter, status *Status) *Gate {
	return &Gate{Meter: meter, Status: status}
}

// Decision is the result of one gate evaluation.
type Decision struct {
	Allowed    bool
	Subscriber bool
}

// Allow lets a request through when the user either has remaining
// free-tier quota or an active subscription. Callers must only call
// Meter.Increment after a successful gated operation, and only when
// Subscriber is false, so paid users never burn free quota.
func (g *Gate) Allow(ctx context.Context, userID string) (Decision, error) {
	subscriber, err := g.Status.IsActive(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if subscriber {
		return Decision{Allowed: true, Subscriber: true}, nil
	}
	withinLimit, err := g.Meter.CheckLimit(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: withinLimit}, nil
}
