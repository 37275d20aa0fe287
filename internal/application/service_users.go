package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// EnsureUser guarantees a local ownership row exists for an authenticated
// subject. Identity itself lives with the hosted auth provider; this row only
// anchors connections, campaigns and leads.
func (s *Service) EnsureUser(ctx context.Context, userID uuid.UUID, email string) (domain.User, error) {
	return s.users.Ensure(ctx, userID, email, s.nowFn())
}
