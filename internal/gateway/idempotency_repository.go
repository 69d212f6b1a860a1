package gateway

import (
	"context"
	"time"
)

//go:generate mockgen -source=idempotency_repository.go -destination=mocks/idempotency_repository_mock.go -package=mocks

// CachedResponse is a stored reply for a repeated Idempotency-Key.
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string
}

type IdempotencyRepository interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
