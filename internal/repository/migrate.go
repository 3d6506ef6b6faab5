package repository

import (
	"context"

	"go-erp-sales/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Customer{},
		&model.CustomerBalanceHistory{},
		&model.Product{},
		&model.Motorcycle{},
		&model.Draft{},
		&model.DraftItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.StockMovement{},
		&model.Activity{},
	)
}
