package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementRestock    MovementType = "RESTOCK"
)

// StockMovement is an append-only quantity delta for a catalog product.
type StockMovement struct {
	RowModel
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product     `json:"product,omitempty"`
	Type         MovementType `gorm:"type:varchar(20);not null" json:"type"`
	Quantity     int          `gorm:"not null" json:"quantity"` // signed: negative leaves stock
	BalanceAfter int          `gorm:"not null" json:"balance_after"`
	SaleID       *uuid.UUID   `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	InvoiceID    *uuid.UUID   `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Note         string       `gorm:"type:text" json:"note"`

	CreatedByUserID string `gorm:"type:varchar(255)" json:"created_by_user_id"`
}
