package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

func TestDisconnectRevokesAndEmitsEvent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()
	conn := f.addConnection(userID, domain.PlatformMeta)

	if err := f.svc.Disconnect(context.Background(), userID, conn.ConnectionID); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	revoked, err := f.connections.GetByID(context.Background(), conn.ConnectionID)
	if err != nil {
		t.Fatalf("lookup connection: %v", err)
	}
	if revoked.Active {
		t.Fatalf("connection still active after disconnect")
	}

	types := f.outbox.eventTypes()
	if len(types) != 1 || types[0] != domain.EventPlatformDisconnected {
		t.Fatalf("outbox events = %v, want [%s]", types, domain.EventPlatformDisconnected)
	}
}

func TestDisconnectRejectsForeignConnection(t *testing.T) {
	t.Parallel()
	f := newFixture()
	owner := uuid.New()
	conn := f.addConnection(owner, domain.PlatformMeta)

	if err := f.svc.Disconnect(context.Background(), uuid.New(), conn.ConnectionID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for a foreign connection", err)
	}
	kept, _ := f.connections.GetByID(context.Background(), conn.ConnectionID)
	if !kept.Active {
		t.Fatalf("foreign disconnect must not revoke the connection")
	}
}

func TestDisconnectedPlatformIsSkippedBySync(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()
	conn := f.addConnection(userID, domain.PlatformMeta)
	f.adapter(domain.PlatformMeta)

	if err := f.svc.Disconnect(context.Background(), userID, conn.ConnectionID); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	stats, err := f.svc.SyncUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("sync user: %v", err)
	}
	if stats.PlatformsSynced != 0 {
		t.Fatalf("platforms synced = %d, want 0 after disconnect", stats.PlatformsSynced)
	}
}
