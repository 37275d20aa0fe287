package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// ListCampaigns returns a user's campaigns, newest first, optionally filtered
// by status and platform.
func (s *Service) ListCampaigns(ctx context.Context, userID uuid.UUID, statusRaw, platformRaw string, limit, offset int) ([]domain.Campaign, error) {
	filter := ports.CampaignFilter{Limit: limit, Offset: offset}
	if strings.TrimSpace(statusRaw) != "" {
		status, err := domain.ParseCampaignStatus(statusRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, statusRaw)
		}
		filter.Status = status
	}
	if strings.TrimSpace(platformRaw) != "" {
		platform, err := domain.ParsePlatform(platformRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, platformRaw)
		}
		filter.Platform = platform
	}
	return s.campaigns.ListByUser(ctx, userID, filter)
}

// CreateCampaign creates the campaign on the remote platform first, then
// mirrors the returned external id locally.
func (s *Service) CreateCampaign(ctx context.Context, userID uuid.UUID, req CreateCampaignRequest) (domain.Campaign, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Campaign{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if req.Budget < 0 {
		return domain.Campaign{}, fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidInput)
	}
	conn, adapter, err := s.activeConnection(ctx, userID, req.Platform)
	if err != nil {
		return domain.Campaign{}, err
	}

	status := domain.CampaignActive
	if req.Schedule {
		status = domain.CampaignScheduled
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	callStart := time.Now()
	remote, err := adapter.CreateCampaign(callCtx, conn, domain.CampaignDraft{
		Name:   req.Name,
		Budget: req.Budget,
		Status: status,
	})
	cancel()
	s.observePlatformCall(req.Platform, callStart, err)
	if err != nil {
		return domain.Campaign{}, err
	}

	now := s.nowFn()
	campaign := domain.Campaign{
		UserID:     userID,
		Platform:   req.Platform,
		ExternalID: remote.ExternalID,
		Name:       remote.Name,
		Status:     remote.Status,
		Budget:     remote.Budget,
		UpdatedAt:  now,
	}
	campaign.ComputeDerivedMetrics()
	saved, _, err := s.campaigns.Upsert(ctx, campaign)
	return saved, err
}

// PauseCampaign pauses remotely then locally.
func (s *Service) PauseCampaign(ctx context.Context, userID, campaignID uuid.UUID) error {
	return s.setCampaignStatus(ctx, userID, campaignID, domain.CampaignPaused)
}

// ResumeCampaign resumes remotely then locally.
func (s *Service) ResumeCampaign(ctx context.Context, userID, campaignID uuid.UUID) error {
	return s.setCampaignStatus(ctx, userID, campaignID, domain.CampaignActive)
}

// DeleteCampaign deletes on the platform and removes the local mirror.
func (s *Service) DeleteCampaign(ctx context.Context, userID, campaignID uuid.UUID) error {
	campaign, err := s.campaigns.GetByID(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	conn, adapter, err := s.activeConnection(ctx, userID, campaign.Platform)
	if err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	callStart := time.Now()
	err = adapter.DeleteCampaign(callCtx, conn, campaign.ExternalID)
	cancel()
	s.observePlatformCall(campaign.Platform, callStart, err)
	if err != nil {
		return err
	}
	return s.campaigns.Delete(ctx, userID, campaignID)
}

// PublishCreative pushes ad copy to the platform for one campaign.
func (s *Service) PublishCreative(ctx context.Context, userID, campaignID uuid.UUID, creative domain.Creative) error {
	if strings.TrimSpace(creative.Headline) == "" {
		return fmt.Errorf("%w: headline is required", domain.ErrInvalidInput)
	}
	campaign, err := s.campaigns.GetByID(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	conn, adapter, err := s.activeConnection(ctx, userID, campaign.Platform)
	if err != nil {
		return err
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	defer cancel()
	callStart := time.Now()
	err = adapter.PublishCreative(callCtx, conn, campaign.ExternalID, creative)
	s.observePlatformCall(campaign.Platform, callStart, err)
	return err
}

func (s *Service) setCampaignStatus(ctx context.Context, userID, campaignID uuid.UUID, status domain.CampaignStatus) error {
	campaign, err := s.campaigns.GetByID(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	conn, adapter, err := s.activeConnection(ctx, userID, campaign.Platform)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	defer cancel()
	callStart := time.Now()
	switch status {
	case domain.CampaignPaused:
		err = adapter.PauseCampaign(callCtx, conn, campaign.ExternalID)
	case domain.CampaignActive:
		err = adapter.ResumeCampaign(callCtx, conn, campaign.ExternalID)
	default:
		return fmt.Errorf("%w: unsupported status transition", domain.ErrInvalidInput)
	}
	s.observePlatformCall(campaign.Platform, callStart, err)
	if err != nil {
		return err
	}
	return s.campaigns.SetStatus(ctx, userID, campaignID, status, s.nowFn())
}

// activeConnection resolves the user's active connection and adapter for a platform.
func (s *Service) activeConnection(ctx context.Context, userID uuid.UUID, platform domain.Platform) (domain.PlatformConnection, ports.PlatformAdapter, error) {
	conns, err := s.connections.ListByUser(ctx, userID, true)
	if err != nil {
		return domain.PlatformConnection{}, nil, err
	}
	for _, conn := range conns {
		if conn.Platform == platform {
			adapter, err := s.adapters.Adapter(platform)
			if err != nil {
				return domain.PlatformConnection{}, nil, err
			}
			return conn, adapter, nil
		}
	}
	return domain.PlatformConnection{}, nil, fmt.Errorf("%w: no active %s connection", domain.ErrNotFound, platform)
}
