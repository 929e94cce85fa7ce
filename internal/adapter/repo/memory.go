package repo

import (
	"context"
	"sync"
	"time"

	"github.com/scribo-ai/server/internal/domain"
)

// UsageRepositoryMem is an in-memory domain.UsageRepository used in tests
// and local development without a database.
type UsageRepositoryMem struct {
	mu      sync.Mutex
	records map[string]*domain.UsageRecord
}

// NewUsageRepositoryMem creates an empty in-memory usage repository.
func NewUsageRepositoryMem() *UsageRepositoryMem {
	return &UsageRepositoryMem{records: make(map[string]*domain.UsageRecord)}
}

func (r *UsageRepositoryMem) Get(ctx context.Context, userID string) (*domain.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *UsageRepositoryMem) Increment(ctx context.Context, userID string) (*domain.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	rec, ok := r.records[userID]
	if !ok {
		rec = &domain.UsageRecord{UserID: userID, CreatedAt: now}
		r.records[userID] = rec
	}
	rec.Count++
	rec.UpdatedAt = now
	copied := *rec
	return &copied, nil
}

// SubscriptionRepositoryMem is an in-memory domain.SubscriptionRepository.
type SubscriptionRepositoryMem struct {
	mu      sync.Mutex
	records map[string]*domain.SubscriptionRecord
}

// NewSubscriptionRepositoryMem creates an empty in-memory subscription repository.
func NewSubscriptionRepositoryMem() *SubscriptionRepositoryMem {
	return &SubscriptionRepositoryMem{records: make(map[string]*domain.SubscriptionRecord)}
}

func (r *SubscriptionRepositoryMem) GetByUserID(ctx context.Context, userID string) (*domain.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *SubscriptionRepositoryMem) Upsert(ctx context.Context, rec *domain.SubscriptionRecord) (*domain.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored, ok := r.records[rec.UserID]
	if !ok {
		stored = &domain.SubscriptionRecord{UserID: rec.UserID, CreatedAt: now}
		r.records[rec.UserID] = stored
	}
	stored.CustomerID = rec.CustomerID
	stored.SubscriptionID = rec.SubscriptionID
	stored.PriceID = rec.PriceID
	stored.CurrentPeriodEnd = rec.CurrentPeriodEnd
	stored.UpdatedAt = now
	copied := *stored
	return &copied, nil
}

func (r *SubscriptionRepositoryMem) UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, currentPeriodEnd time.Time) (*domain.SubscriptionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.records {
		if stored.SubscriptionID == subscriptionID {
			stored.PriceID = priceID
			stored.CurrentPeriodEnd = currentPeriodEnd
			stored.UpdatedAt = time.Now()
			copied := *stored
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

var (
	_ domain.UsageRepository        = (*UsageRepositoryMem)(nil)
	_ domain.SubscriptionRepository = (*SubscriptionRepositoryMem)(nil)
)
