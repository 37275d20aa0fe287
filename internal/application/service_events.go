package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/ports"
)

// appendOutbox records a domain event for the publisher loop. Event loss here
// is logged but never fails the triggering operation.
func (s *Service) appendOutbox(ctx context.Context, eventType, partitionKey string, payload []byte, occurredAt time.Time) {
	if s.outbox == nil {
		return
	}
	err := s.outbox.Append(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   occurredAt,
	})
	if err != nil {
		appLogger().WarnContext(ctx, "outbox append failed",
			"operation", "append_outbox",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}
