package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftType is the sale type discriminator (JUMLA / MUFRAD in the legacy UI).
type DraftType string

const (
	DraftTypeRetail    DraftType = "RETAIL"
	DraftTypeWholesale DraftType = "WHOLESALE"
)

type DraftStatus string

const (
	DraftStatusCreated   DraftStatus = "CREATED"
	DraftStatusReady     DraftStatus = "READY"
	DraftStatusFinalized DraftStatus = "FINALIZED"
	DraftStatusCancelled DraftStatus = "CANCELLED"
)

// Open reports whether the draft can still be edited or finalized.
func (s DraftStatus) Open() bool {
	return s == DraftStatusCreated || s == DraftStatusReady
}

// Draft is the only mutable document in the sales flow.
type Draft struct {
	BaseModel
	Type       DraftType       `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=RETAIL WHOLESALE"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items      []DraftItem     `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE" json:"items"`
	Discount   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"discount"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"subtotal"`
	TaxAmount  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"tax_amount"`
	Total      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Status     DraftStatus     `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedByUserID string     `gorm:"type:varchar(255);index" json:"created_by_user_id"`
	SaleID          *uuid.UUID `gorm:"type:uuid" json:"sale_id,omitempty"`
	FinalizedAt     *time.Time `json:"finalized_at,omitempty"`
}

type DraftItem struct {
	RowModel
	DraftID uuid.UUID `gorm:"type:uuid;not null;index" json:"draft_id"`
	LineItem
}

// Lines returns the shared line view of the draft items, in display order.
func (d *Draft) Lines() []LineItem {
	lines := make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		lines[i] = item.LineItem
	}
	return lines
}
