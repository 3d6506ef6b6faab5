package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Motorcycle is a stock-bearing item kept outside the product catalog. Its
// stock changes produce activity rows but no stock movements.
type Motorcycle struct {
	BaseModel
	SKU               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Brand             string          `gorm:"type:varchar(100);not null" json:"brand" validate:"required"`
	Model             string          `gorm:"type:varchar(100);not null" json:"model" validate:"required"`
	Year              int             `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Color             string          `gorm:"type:varchar(50)" json:"color"`
	StockQuantity     int             `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int             `gorm:"not null;default:1" json:"low_stock_threshold" validate:"gte=0"`
	Price             decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"price"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
}

func (m *Motorcycle) DisplayName() string {
	if m.Year > 0 {
		return m.Brand + " " + m.Model + " (" + strconv.Itoa(m.Year) + ")"
	}
	return m.Brand + " " + m.Model
}

func (m *Motorcycle) LowStock() bool {
	return m.StockQuantity <= m.LowStockThreshold
}
