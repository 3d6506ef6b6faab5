package repository

import (
	"context"

	"go-erp-sales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	ListByEntity(ctx context.Context, entityType model.EntityType, entityID uuid.UUID) ([]model.Activity, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByEntity returns the entity's history in insertion order.
func (r *activityRepo) ListByEntity(ctx context.Context, entityType model.EntityType, entityID uuid.UUID) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&activities).Error
	return activities, err
}
