package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type leadRepository struct {
	db *gorm.DB
}

func (r *leadRepository) Insert(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	rec := leadModel{
		UserID:     lead.UserID,
		CampaignID: lead.CampaignID,
		Platform:   string(lead.Platform),
		ExternalID: lead.ExternalID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     lead.Source,
		Value:      lead.Value,
		CreatedAt:  lead.UpdatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Lead{}, domain.ErrConflict
		}
		return domain.Lead{}, err
	}
	return toDomainLead(rec), nil
}

// Upsert dedups synced leads on (user_id, platform, external_id). The partial
// unique index only covers rows with a non-empty external id, so manual leads
// are unaffected.
func (r *leadRepository) Upsert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	if lead.ExternalID == "" {
		inserted, err := r.Insert(ctx, lead)
		return inserted, err == nil, err
	}

	var existing leadModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", lead.UserID).
		Where("platform = ?", string(lead.Platform)).
		Where("external_id = ?", lead.ExternalID).
		Take(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return domain.Lead{}, false, err
	}

	rec := leadModel{
		UserID:     lead.UserID,
		CampaignID: lead.CampaignID,
		Platform:   string(lead.Platform),
		ExternalID: lead.ExternalID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     lead.Source,
		Value:      lead.Value,
		CreatedAt:  lead.UpdatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "platform"},
			{Name: "external_id"},
		},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: clause.Column{Name: "external_id"}, Value: ""},
		}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       rec.Name,
			"email":      rec.Email,
			"phone":      rec.Phone,
			"value":      rec.Value,
			"updated_at": rec.UpdatedAt,
		}),
	}).Create(&rec).Error; err != nil {
		return domain.Lead{}, false, err
	}

	var stored leadModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", lead.UserID).
		Where("platform = ?", string(lead.Platform)).
		Where("external_id = ?", lead.ExternalID).
		Take(&stored).Error; err != nil {
		return domain.Lead{}, false, err
	}
	return toDomainLead(stored), created, nil
}

func (r *leadRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ports.LeadFilter) ([]domain.Lead, error) {
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
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}

	var recs []leadModel
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Lead, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainLead(rec))
	}
	return out, nil
}
