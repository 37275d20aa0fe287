package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// UserRepository reads identity records. Users are provisioned by the hosted
// auth provider; this service only ensures a local row exists for ownership.
type UserRepository interface {
	Ensure(ctx context.Context, userID uuid.UUID, email string, now time.Time) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	ListWithActiveConnections(ctx context.Context) ([]uuid.UUID, error)
}

// ConnectionUpsertParams carries the OAuth exchange result persisted on callback.
type ConnectionUpsertParams struct {
	UserID         uuid.UUID
	Platform       domain.Platform
	AccountID      string
	AccountName    string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	ConnectedAt    time.Time
}

// ConnectionRepository manages stored platform credentials and metadata.
// Upsert enforces the (user_id, platform) uniqueness invariant: reconnecting a
// platform updates the existing row in place.
type ConnectionRepository interface {
	Upsert(ctx context.Context, params ConnectionUpsertParams) (domain.PlatformConnection, error)
	GetByID(ctx context.Context, connectionID uuid.UUID) (domain.PlatformConnection, error)
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.PlatformConnection, error)
	MarkSynced(ctx context.Context, connectionID uuid.UUID, syncedAt time.Time) error
	Revoke(ctx context.Context, connectionID uuid.UUID, revokedAt time.Time) error
}

// CampaignFilter narrows campaign listings. Zero values mean "no filter".
type CampaignFilter struct {
	Status   domain.CampaignStatus
	Platform domain.Platform
	Limit    int
	Offset   int
}

// CampaignRepository persists normalized campaigns. Upsert keys on
// (user_id, platform, external_id) so re-syncs converge instead of duplicating.
type CampaignRepository interface {
	Upsert(ctx context.Context, campaign domain.Campaign) (domain.Campaign, bool, error)
	GetByID(ctx context.Context, userID, campaignID uuid.UUID) (domain.Campaign, error)
	GetByExternalID(ctx context.Context, userID uuid.UUID, platform domain.Platform, externalID string) (domain.Campaign, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter CampaignFilter) ([]domain.Campaign, error)
	Delete(ctx context.Context, userID, campaignID uuid.UUID) error
	SetStatus(ctx context.Context, userID, campaignID uuid.UUID, status domain.CampaignStatus, updatedAt time.Time) error
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Source     string
	CampaignID *uuid.UUID
	Limit      int
	Offset     int
}

// LeadRepository persists leads. Synced leads upsert on
// (user_id, platform, external_id); manual leads insert with a fresh id.
type LeadRepository interface {
	Insert(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Upsert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter LeadFilter) ([]domain.Lead, error)
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRepository stores pending events and hands them to the publisher loop.
// Claim tokens fence concurrent workers; dead-lettering caps retries.
type OutboxRepository interface {
	Append(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]domain.OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken string, reason string, failedAt time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken string, reason string, deadAt time.Time) error
}
