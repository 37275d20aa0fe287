package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type campaignRepository struct {
	db *gorm.DB
}

// Upsert keys on (user_id, platform, external_id) so re-syncing the same
// campaign updates metric columns in place. The bool reports whether a new row
// was created.
func (r *campaignRepository) Upsert(ctx context.Context, campaign domain.Campaign) (domain.Campaign, bool, error) {
	rec := campaignModel{
		UserID:      campaign.UserID,
		Platform:    string(campaign.Platform),
		ExternalID:  campaign.ExternalID,
		Name:        campaign.Name,
		Status:      string(campaign.Status),
		Budget:      campaign.Budget,
		Spend:       campaign.Spend,
		Revenue:     campaign.Revenue,
		Impressions: campaign.Impressions,
		Clicks:      campaign.Clicks,
		Conversions: campaign.Conversions,
		CTR:         campaign.CTR,
		CPC:         campaign.CPC,
		ROAS:        campaign.ROAS,
		CreatedAt:   campaign.UpdatedAt,
		UpdatedAt:   campaign.UpdatedAt,
	}

	var existing campaignModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", campaign.UserID).
		Where("platform = ?", string(campaign.Platform)).
		Where("external_id = ?", campaign.ExternalID).
		Take(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return domain.Campaign{}, false, err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "platform"},
			{Name: "external_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"name":        rec.Name,
			"status":      rec.Status,
			"budget":      rec.Budget,
			"spend":       rec.Spend,
			"revenue":     rec.Revenue,
			"impressions": rec.Impressions,
			"clicks":      rec.Clicks,
			"conversions": rec.Conversions,
			"ctr":         rec.CTR,
			"cpc":         rec.CPC,
			"roas":        rec.ROAS,
			"updated_at":  rec.UpdatedAt,
		}),
	}).Create(&rec).Error; err != nil {
		return domain.Campaign{}, false, err
	}

	var stored campaignModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", campaign.UserID).
		Where("platform = ?", string(campaign.Platform)).
		Where("external_id = ?", campaign.ExternalID).
		Take(&stored).Error; err != nil {
		return domain.Campaign{}, false, err
	}
	return toDomainCampaign(stored), created, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, userID, campaignID uuid.UUID) (domain.Campaign, error) {
	var rec campaignModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, err
	}
	return toDomainCampaign(rec), nil
}

func (r *campaignRepository) GetByExternalID(ctx context.Context, userID uuid.UUID, platform domain.Platform, externalID string) (domain.Campaign, error) {
	var rec campaignModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("platform = ?", string(platform)).
		Where("external_id = ?", externalID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, domain.ErrNotFound
		}
		return domain.Campaign{}, err
	}
	return toDomainCampaign(rec), nil
}

func (r *campaignRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ports.CampaignFilter) ([]domain.Campaign, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", string(filter.Platform))
	}

	var recs []campaignModel
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainCampaign(rec))
	}
	return out, nil
}

func (r *campaignRepository) Delete(ctx context.Context, userID, campaignID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Delete(&campaignModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *campaignRepository) SetStatus(ctx context.Context, userID, campaignID uuid.UUID, status domain.CampaignStatus, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
