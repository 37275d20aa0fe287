package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types written to the outbox and published to the broker.
const (
	EventPlatformConnected    = "marketops.platform.connected"
	EventPlatformDisconnected = "marketops.platform.disconnected"
	EventSyncCompleted        = "marketops.sync.completed"
)

// PlatformConnectedEvent is emitted after a successful OAuth callback upsert.
type PlatformConnectedEvent struct {
	UserID      uuid.UUID `json:"user_id"`
	Platform    Platform  `json:"platform"`
	AccountID   string    `json:"account_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

// PlatformDisconnectedEvent is emitted when a connection is revoked.
type PlatformDisconnectedEvent struct {
	UserID         uuid.UUID `json:"user_id"`
	Platform       Platform  `json:"platform"`
	DisconnectedAt time.Time `json:"disconnected_at"`
}

// SyncCompletedEvent summarizes one user's sync run, successful or partial.
type SyncCompletedEvent struct {
	UserID            uuid.UUID `json:"user_id"`
	PlatformsSynced   int       `json:"platforms_synced"`
	CampaignsUpserted int       `json:"campaigns_upserted"`
	LeadsUpserted     int       `json:"leads_upserted"`
	ErrorCount        int       `json:"error_count"`
	FinishedAt        time.Time `json:"finished_at"`
}

// OutboxRecord is a pending event row claimed and published by the outbox worker.
type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
	RetryCount   int
}
