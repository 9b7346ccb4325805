package ports

import (
	"context"
	"time"
)

// TokenStore remembers revoked bearer tokens until they would have expired
// anyway.
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
