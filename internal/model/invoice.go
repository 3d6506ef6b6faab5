package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

// Invoice mirrors its sale's financials but owns a separate copy of the items
// so it can be edited later without touching the sale.
type Invoice struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"invoice_number"`
	SaleID        *uuid.UUID      `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Currency      Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"tax_amount"`
	Discount      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total"`
	PaymentMethod string          `gorm:"type:varchar(30)" json:"payment_method"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"amount_paid"`
	AmountDue     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"amount_due"`
	Notes         string          `gorm:"type:text" json:"notes"`
	DueDate       time.Time       `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`

	CreatedByUserID string `gorm:"type:varchar(255);index" json:"created_by_user_id"`
}

type InvoiceItem struct {
	RowModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineItem
}
