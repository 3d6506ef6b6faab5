package repository

import (
	"context"

	"go-erp-sales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MotorcycleRepository interface {
	Create(ctx context.Context, motorcycle *model.Motorcycle) error
	FindAll(ctx context.Context) ([]model.Motorcycle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Motorcycle, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Motorcycle, error)
	Update(ctx context.Context, motorcycle *model.Motorcycle) error
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int, updatedBy string) error
}

type motorcycleRepo struct {
	db *gorm.DB
}

func NewMotorcycleRepo(db *gorm.DB) MotorcycleRepository {
	return &motorcycleRepo{db}
}

func (r *motorcycleRepo) Create(ctx context.Context, motorcycle *model.Motorcycle) error {
	return translate(r.db.WithContext(ctx).Create(motorcycle).Error)
}

func (r *motorcycleRepo) FindAll(ctx context.Context) ([]model.Motorcycle, error) {
	var motorcycles []model.Motorcycle
	err := r.db.WithContext(ctx).Order("brand ASC, model ASC").Find(&motorcycles).Error
	return motorcycles, err
}

func (r *motorcycleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Motorcycle, error) {
	var motorcycle model.Motorcycle
	if err := r.db.WithContext(ctx).First(&motorcycle, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &motorcycle, nil
}

func (r *motorcycleRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Motorcycle, error) {
	var motorcycle model.Motorcycle
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&motorcycle, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &motorcycle, nil
}

func (r *motorcycleRepo) Update(ctx context.Context, motorcycle *model.Motorcycle) error {
	return translate(r.db.WithContext(ctx).Save(motorcycle).Error)
}

func (r *motorcycleRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Motorcycle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity":     newStock,
			"updated_by":         updatedBy,
			"updated_by_user_id": updatedBy,
		}).Error
}
