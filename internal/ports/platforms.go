package ports

import (
	"context"

	"github.com/adpilot/marketops/internal/domain"
)

// Account identifies one remote ad/commerce account reachable with a token.
type Account struct {
	ID   string
	Name string
}

// RemoteCampaign is a campaign as reported by a platform, prior to normalization.
// Adapters translate their platform's field names into this shape.
type RemoteCampaign struct {
	ExternalID  string
	Name        string
	Status      domain.CampaignStatus
	Budget      float64
	Spend       float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64
}

// RemoteLead is a contact reported by a platform (Shopify orders map here).
type RemoteLead struct {
	ExternalID string
	Name       string
	Email      string
	Phone      string
	Value      float64
}

// PlatformAdapter is the uniform capability contract every platform implements.
// Adapters never leak raw transport errors: failures surface as the typed
// sentinels ErrPlatformAuthExpired, ErrRateLimited or ErrRemote, and an empty
// slice with a nil error means the platform had nothing to report.
type PlatformAdapter interface {
	Platform() domain.Platform
	FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]Account, error)
	FetchCampaigns(ctx context.Context, conn domain.PlatformConnection, accountID string) ([]RemoteCampaign, error)
	FetchMetrics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (RemoteCampaign, error)
	FetchLeads(ctx context.Context, conn domain.PlatformConnection) ([]RemoteLead, error)
	CreateCampaign(ctx context.Context, conn domain.PlatformConnection, draft domain.CampaignDraft) (RemoteCampaign, error)
	PauseCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error
	ResumeCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error
	DeleteCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error
	PublishCreative(ctx context.Context, conn domain.PlatformConnection, externalID string, creative domain.Creative) error
}

// AdapterRegistry resolves the adapter for a platform.
type AdapterRegistry interface {
	Adapter(platform domain.Platform) (PlatformAdapter, error)
}
