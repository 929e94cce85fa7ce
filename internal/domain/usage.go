package domain

import "time"

// UsageRecord tracks how many free-tier generations a user has consumed.
// One row per user, created on the first increment and never deleted.
type UsageRecord struct {
	UserID    string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
