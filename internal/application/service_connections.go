package application

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// ListConnections returns every connection for a user, revoked ones included,
// so the UI can offer reconnect.
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID) ([]domain.PlatformConnection, error) {
	conns, err := s.connections.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	// Tokens never leave the application layer.
	for i := range conns {
		conns[i].AccessToken = ""
		conns[i].RefreshToken = ""
	}
	return conns, nil
}

// Disconnect revokes a connection. Ownership is checked before touching the row.
func (s *Service) Disconnect(ctx context.Context, userID, connectionID uuid.UUID) error {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.UserID != userID {
		return domain.ErrNotFound
	}
	now := s.nowFn()
	if err := s.connections.Revoke(ctx, connectionID, now); err != nil {
		return err
	}

	payload, _ := json.Marshal(domain.PlatformDisconnectedEvent{
		UserID:         userID,
		Platform:       conn.Platform,
		DisconnectedAt: now,
	})
	s.appendOutbox(ctx, domain.EventPlatformDisconnected, userID.String(), payload, now)
	return nil
}
