package access

import (
	"context"
	"testing"
	"time"

	"github.com/scribo-ai/server/internal/adapter/repo"
	"github.com/scribo-ai/server/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckLimitAllowsUserWithoutRecord(t *testing.T) {
	m := NewMeter(repo.NewUsageRepositoryMem())

	ok, err := m.CheckLimit(context.Background(), "fresh-user")
	if err != nil {
		t.Fatalf("CheckLimit returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected fresh user to have quota")
	}
}

func TestCheckLimitDeniesAtThreshold(t *testing.T) {
	usage := repo.NewUsageRepositoryMem()
	m := NewMeter(usage)
	ctx := context.Background()

	for i := 0; i < FreeTierLimit; i++ {
		ok, err := m.CheckLimit(ctx, "user-1")
		if err != nil {
			t.Fatalf("CheckLimit returned error: %v", err)
		}
		if !ok {
			t.Fatalf("expected quota available at count %d", i)
		}
		if err := m.Increment(ctx, "user-1"); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}

	ok, err := m.CheckLimit(ctx, "user-1")
	if err != nil {
		t.Fatalf("CheckLimit returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected quota exhausted after %d increments", FreeTierLimit)
	}
}

func TestIsActiveRespectsGraceWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	subs := repo.NewSubscriptionRepositoryMem()
	status := NewStatus(subs).WithClock(fixedClock(now))
	ctx := context.Background()

	cases := []struct {
		name      string
		periodEnd time.Time
		want      bool
	}{
		{"no record", time.Time{}, false},
		{"ended long ago", now.Add(-30 * 24 * time.Hour), false},
		{"ended 2h ago, inside grace", now.Add(-2 * time.Hour), true},
		{"well in the future", now.Add(30 * 24 * time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userID := "user-" + tc.name
			if !tc.periodEnd.IsZero() {
				_, err := subs.Upsert(ctx, &domain.SubscriptionRecord{
					UserID:           userID,
					CustomerID:       "cus_x",
					SubscriptionID:   "sub_" + tc.name,
					PriceID:          "price_x",
					CurrentPeriodEnd: tc.periodEnd,
				})
				if err != nil {
					t.Fatalf("Upsert returned error: %v", err)
				}
			}
			got, err := status.IsActive(ctx, userID)
			if err != nil {
				t.Fatalf("IsActive returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsActive = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGateAllowsSubscriberOverQuota(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	usage := repo.NewUsageRepositoryMem()
	subs := repo.NewSubscriptionRepositoryMem()
	gate := NewGate(NewMeter(usage), NewStatus(subs).WithClock(fixedClock(now)))
	ctx := context.Background()

	for i := 0; i < FreeTierLimit+3; i++ {
		if _, err := usage.Increment(ctx, "user-1"); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}
	_, err := subs.Upsert(ctx, &domain.SubscriptionRecord{
		UserID:           "user-1",
		CustomerID:       "cus_1",
		SubscriptionID:   "sub_1",
		PriceID:          "price_1",
		CurrentPeriodEnd: now.Add(20 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	d, err := gate.Allow(ctx, "user-1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if !d.Allowed || !d.Subscriber {
		t.Fatalf("Decision = %+v, want allowed subscriber", d)
	}
}

func TestGateDeniesExhaustedNonSubscriber(t *testing.T) {
	usage := repo.NewUsageRepositoryMem()
	subs := repo.NewSubscriptionRepositoryMem()
	gate := NewGate(NewMeter(usage), NewStatus(subs))
	ctx := context.Background()

	for i := 0; i < FreeTierLimit; i++ {
		if _, err := usage.Increment(ctx, "user-1"); err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
	}

	d, err := gate.Allow(ctx, "user-1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if d.Allowed || d.Subscriber {
		t.Fatalf("Decision = %+v, want denied non-subscriber", d)
	}
}
