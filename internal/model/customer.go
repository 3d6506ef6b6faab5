package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer carries two debts that never convert into each other: DebtIQD moves
// together with CurrentBalance, DebtUSD moves on its own.
type Customer struct {
	BaseModel
	Name            string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU             string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required,numeric"`
	Phone           string          `gorm:"type:varchar(30)" json:"phone"`
	DebtIQD         decimal.Decimal `gorm:"column:debt_iqd;type:numeric(20,4);not null;default:0" json:"debt_iqd"`
	DebtUSD         decimal.Decimal `gorm:"column:debt_usd;type:numeric(20,4);not null;default:0" json:"debt_usd"`
	CurrentBalance  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"current_balance"`
	LastPaymentDate *time.Time      `json:"last_payment_date,omitempty"`
	NotifyOnSale    bool            `gorm:"default:false" json:"notify_on_sale"`
	NotifyOnDue     bool            `gorm:"default:false" json:"notify_on_due"`
}

// CustomerBalanceHistory is one append-only entry per balance adjustment.
type CustomerBalanceHistory struct {
	RowModel
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	SaleID          *uuid.UUID      `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	InvoiceID       *uuid.UUID      `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Currency        Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	DebtAfter       decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"debt_after"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"balance_after"`
	Note            string          `gorm:"type:text" json:"note"`
	CreatedByUserID string          `gorm:"type:varchar(255)" json:"created_by_user_id"`
}

func (CustomerBalanceHistory) TableName() string {
	return "customer_balance_histories"
}
