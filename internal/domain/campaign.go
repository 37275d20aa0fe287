package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus enumerates the normalized lifecycle states across platforms.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignScheduled CampaignStatus = "scheduled"
)

// ParseCampaignStatus validates a status filter value.
func ParseCampaignStatus(raw string) (CampaignStatus, error) {
	s := CampaignStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case CampaignActive, CampaignPaused, CampaignCompleted, CampaignScheduled:
		return s, nil
	default:
		return "", ErrInvalidInput
	}
}

// Campaign is the normalized representation of one remote ad campaign.
// Upsert key is (UserID, Platform, ExternalID); everything except that key is a
// cache of remote state and safe to recompute on the next sync.
type Campaign struct {
	CampaignID  uuid.UUID
	UserID      uuid.UUID
	Platform    Platform
	ExternalID  string
	Name        string
	Status      CampaignStatus
	Budget      float64
	Spend       float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64
	CTR         float64
	CPC         float64
	ROAS        float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComputeDerivedMetrics fills CTR, CPC and ROAS from the raw counters.
// Every ratio is guarded so zero denominators report 0 rather than NaN/Inf.
func (c *Campaign) ComputeDerivedMetrics() {
	c.CTR = 0
	c.CPC = 0
	c.ROAS = 0
	if c.Impressions > 0 {
		c.CTR = round4(float64(c.Clicks) / float64(c.Impressions))
	}
	if c.Clicks > 0 {
		c.CPC = round2(c.Spend / float64(c.Clicks))
	}
	if c.Spend > 0 {
		c.ROAS = round2(c.Revenue / c.Spend)
	}
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
func round4(f float64) float64 { return float64(int64(f*10000+0.5)) / 10000 }

// MetricsWindow bounds a metrics fetch to a date range, inclusive.
type MetricsWindow struct {
	From time.Time
	To   time.Time
}

// CampaignDraft carries the fields needed to create a campaign on a platform.
type CampaignDraft struct {
	Name   string
	Budget float64
	Status CampaignStatus
}

// Creative is ad copy published to a platform, either user-written or generated
// by the assist layer.
type Creative struct {
	Headline     string
	Body         string
	CallToAction string
	ImageURL     string
}
