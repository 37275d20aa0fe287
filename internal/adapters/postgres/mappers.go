package postgres

import (
	"github.com/adpilot/marketops/internal/domain"
)

func toDomainConnection(m connectionModel) domain.PlatformConnection {
	return domain.PlatformConnection{
		ConnectionID:   m.ConnectionID,
		UserID:         m.UserID,
		Platform:       domain.Platform(m.Platform),
		AccountID:      m.AccountID,
		AccountName:    m.AccountName,
		AccessToken:    m.AccessToken,
		RefreshToken:   m.RefreshToken,
		TokenExpiresAt: m.TokenExpiresAt,
		Active:         m.Active,
		ConnectedAt:    m.ConnectedAt,
		LastSyncedAt:   m.LastSyncedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toDomainCampaign(m campaignModel) domain.Campaign {
	return domain.Campaign{
		CampaignID:  m.CampaignID,
		UserID:      m.UserID,
		Platform:    domain.Platform(m.Platform),
		ExternalID:  m.ExternalID,
		Name:        m.Name,
		Status:      domain.CampaignStatus(m.Status),
		Budget:      m.Budget,
		Spend:       m.Spend,
		Revenue:     m.Revenue,
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Conversions: m.Conversions,
		CTR:         m.CTR,
		CPC:         m.CPC,
		ROAS:        m.ROAS,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainLead(m leadModel) domain.Lead {
	return domain.Lead{
		LeadID:     m.LeadID,
		UserID:     m.UserID,
		CampaignID: m.CampaignID,
		Platform:   domain.Platform(m.Platform),
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Source:     m.Source,
		Value:      m.Value,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
