package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrProviderFailure  = errors.New("provider failure")
)
