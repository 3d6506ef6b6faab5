package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
)

// Sale is the immutable record written once when a draft is finalized.
type Sale struct {
	BaseModel
	Type          DraftType       `gorm:"type:varchar(20);not null" json:"type"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	DraftID       *uuid.UUID      `gorm:"type:uuid;index" json:"draft_id,omitempty"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null" json:"status"`
	Currency      Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"tax_amount"`
	Discount      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total"`
	PaymentMethod string          `gorm:"type:varchar(30)" json:"payment_method"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"amount_paid"`
	AmountDue     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"amount_due"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`

	CreatedByUserID string `gorm:"type:varchar(255);index" json:"created_by_user_id"`
}

type SaleItem struct {
	RowModel
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	LineItem
}
