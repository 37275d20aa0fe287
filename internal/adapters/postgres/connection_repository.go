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

type connectionRepository struct {
	db *gorm.DB
}

// Upsert writes the connection for (user_id, platform). A reconnect reuses the
// existing row; tokens, account metadata and the active flag are refreshed.
func (r *connectionRepository) Upsert(ctx context.Context, params ports.ConnectionUpsertParams) (domain.PlatformConnection, error) {
	rec := connectionModel{
		UserID:         params.UserID,
		Platform:       string(params.Platform),
		AccountID:      params.AccountID,
		AccountName:    params.AccountName,
		AccessToken:    params.AccessToken,
		RefreshToken:   params.RefreshToken,
		TokenExpiresAt: params.TokenExpiresAt,
		Active:         true,
		ConnectedAt:    params.ConnectedAt,
		CreatedAt:      params.ConnectedAt,
		UpdatedAt:      params.ConnectedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "platform"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"account_id":       rec.AccountID,
			"account_name":     rec.AccountName,
			"access_token":     rec.AccessToken,
			"refresh_token":    rec.RefreshToken,
			"token_expires_at": rec.TokenExpiresAt,
			"active":           true,
			"connected_at":     rec.ConnectedAt,
			"updated_at":       rec.UpdatedAt,
		}),
	}).Create(&rec).Error
	if err != nil {
		return domain.PlatformConnection{}, err
	}

	// Re-read so a conflict-updated row returns its original connection_id.
	var stored connectionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", params.UserID).
		Where("platform = ?", string(params.Platform)).
		Take(&stored).Error; err != nil {
		return domain.PlatformConnection{}, err
	}
	return toDomainConnection(stored), nil
}

func (r *connectionRepository) GetByID(ctx context.Context, connectionID uuid.UUID) (domain.PlatformConnection, error) {
	var rec connectionModel
	if err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PlatformConnection{}, domain.ErrNotFound
		}
		return domain.PlatformConnection{}, err
	}
	return toDomainConnection(rec), nil
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.PlatformConnection, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("connected_at DESC")
	if activeOnly {
		query = query.Where("active = TRUE")
	}

	var recs []connectionModel
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PlatformConnection, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainConnection(rec))
	}
	return out, nil
}

func (r *connectionRepository) MarkSynced(ctx context.Context, connectionID uuid.UUID, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&connectionModel{}).
		Where("connection_id = ?", connectionID).
		Updates(map[string]any{
			"last_synced_at": syncedAt,
			"updated_at":     syncedAt,
		}).Error
}

func (r *connectionRepository) Revoke(ctx context.Context, connectionID uuid.UUID, revokedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&connectionModel{}).
		Where("connection_id = ?", connectionID).
		Where("active = TRUE").
		Updates(map[string]any{
			"active":     false,
			"updated_at": revokedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
