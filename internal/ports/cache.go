package ports

import (
	"context"
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

// AuthStateStore manages the temporary OAuth authorization state between the
// start and callback legs. Entries are single-use and expire with their TTL;
// this preserves the anti-CSRF check across the redirect.
type AuthStateStore interface {
	Put(ctx context.Context, state string, value domain.AuthState, ttl time.Duration) error
	Get(ctx context.Context, state string) (*domain.AuthState, error)
	Delete(ctx context.Context, state string) error
}

// RateLimiter is a best-effort fixed-window counter keyed by caller identity.
// Approximate and non-durable by design; a restart resets every window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, threshold int, window time.Duration) (bool, error)
}
