package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adpilot/marketops/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

// Ensure creates the local ownership row for an auth-provider subject on first
// sight and refreshes the email on subsequent calls.
func (r *userRepository) Ensure(ctx context.Context, userID uuid.UUID, email string, now time.Time) (domain.User, error) {
	rec := userModel{
		UserID:    userID,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email":      email,
			"updated_at": now,
		}),
	}).Create(&rec).Error
	if err != nil {
		return domain.User{}, err
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return domain.User{
		UserID:    rec.UserID,
		Email:     rec.Email,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// ListWithActiveConnections selects the scheduled-sync population: users
// holding at least one active platform connection.
func (r *userRepository) ListWithActiveConnections(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("DISTINCT u.user_id").
		Joins("JOIN platform_connections c ON c.user_id = u.user_id AND c.active = TRUE").
		Where("u.is_active = TRUE").
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
