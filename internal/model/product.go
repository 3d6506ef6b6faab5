package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	StockQuantity     int             `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int             `gorm:"not null;default:5" json:"low_stock_threshold" validate:"gte=0"`
	Unit              string          `gorm:"type:varchar(20)" json:"unit"`
	Price             decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"price"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`

	// Relasi
	Movements []StockMovement `json:"movements,omitempty"`
}

// LowStock reports whether the quantity is at or below the threshold.
func (p *Product) LowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
