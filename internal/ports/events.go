package ports

import "context"

// EventPublisher is the outbound domain-event publish port. The partition key
// keeps one user's events ordered on the broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
