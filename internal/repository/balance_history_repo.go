package repository

import (
	"context"

	"go-erp-sales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BalanceHistoryRepository interface {
	Append(ctx context.Context, entry *model.CustomerBalanceHistory) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerBalanceHistory, error)
}

type balanceHistoryRepo struct {
	db *gorm.DB
}

func NewBalanceHistoryRepo(db *gorm.DB) BalanceHistoryRepository {
	return &balanceHistoryRepo{db}
}

func (r *balanceHistoryRepo) Append(ctx context.Context, entry *model.CustomerBalanceHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *balanceHistoryRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerBalanceHistory, error) {
	var entries []model.CustomerBalanceHistory
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
