package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// StartAuthorizationResponse carries the redirect URL for the OAuth popup.
type StartAuthorizationResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// CallbackResult reports the connection established by a completed flow.
type CallbackResult struct {
	ConnectionID uuid.UUID       `json:"connection_id"`
	Platform     domain.Platform `json:"platform"`
	AccountID    string          `json:"account_id"`
	AccountName  string          `json:"account_name"`
	Active       bool            `json:"active"`
}

// PlatformError records one platform's failure inside an otherwise-continuing
// sync run.
type PlatformError struct {
	Platform domain.Platform `json:"platform"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
}

// SyncStats is the per-user outcome of a sync run. Errors never abort the run;
// they are collected here per platform.
type SyncStats struct {
	UserID            uuid.UUID       `json:"user_id"`
	PlatformsSynced   int             `json:"platforms_synced"`
	CampaignsUpserted int             `json:"campaigns_upserted"`
	LeadsUpserted     int             `json:"leads_upserted"`
	Errors            []PlatformError `json:"errors"`
	StartedAt         time.Time       `json:"started_at"`
	FinishedAt        time.Time       `json:"finished_at"`
}

// CreateCampaignRequest creates a campaign remotely and mirrors it locally.
type CreateCampaignRequest struct {
	Platform domain.Platform `json:"platform"`
	Name     string          `json:"name"`
	Budget   float64         `json:"budget"`
	Schedule bool            `json:"schedule"`
}

// CreateLeadRequest is a manually entered lead.
type CreateLeadRequest struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     string     `json:"source"`
	CampaignID *uuid.UUID `json:"campaign_id,omitempty"`
	Value      float64    `json:"value"`
}

// LeadImportError reports one rejected row from a bulk import.
type LeadImportError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// LeadImportResult summarizes a bulk import: accepted rows are persisted even
// when other rows fail validation.
type LeadImportResult struct {
	Imported int               `json:"imported"`
	Rejected []LeadImportError `json:"rejected"`
}

// AdCopyRequest asks the assist layer for generated creative text.
type AdCopyRequest struct {
	Platform domain.Platform `json:"platform"`
	Product  string          `json:"product"`
	Audience string          `json:"audience"`
}

// Recommendation is one assist-layer suggestion derived from campaign metrics.
type Recommendation struct {
	CampaignID uuid.UUID       `json:"campaign_id"`
	Platform   domain.Platform `json:"platform"`
	Kind       string          `json:"kind"`
	Summary    string          `json:"summary"`
}
