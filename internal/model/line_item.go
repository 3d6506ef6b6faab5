package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-erp-sales/pkg/pricing"
)

// MotorcycleMarker is the legacy prefix written into a line's notes to mark a
// non-catalog motorcycle line: "MOTORCYCLE:<id>".
const MotorcycleMarker = "MOTORCYCLE:"

var (
	ErrInvalidLineRef   = errors.New("line item must reference a product or a motorcycle")
	ErrAmbiguousLineRef = errors.New("line item cannot reference both a product and a motorcycle")
)

type ItemKind string

const (
	ItemKindProduct    ItemKind = "PRODUCT"
	ItemKindMotorcycle ItemKind = "MOTORCYCLE"
)

type Currency string

const (
	CurrencyIQD Currency = "IQD"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyIQD || c == CurrencyUSD
}

// LineRef is the resolved target of a line item. Exactly one id is set,
// matching Kind.
type LineRef struct {
	Kind         ItemKind
	ProductID    *uuid.UUID
	MotorcycleID *uuid.UUID
}

// EntityID returns whichever id the reference carries.
func (r LineRef) EntityID() uuid.UUID {
	if r.Kind == ItemKindMotorcycle && r.MotorcycleID != nil {
		return *r.MotorcycleID
	}
	if r.ProductID != nil {
		return *r.ProductID
	}
	return uuid.Nil
}

// ParseLineRef resolves a line's target once, at write time. A notes field
// starting with MOTORCYCLE: (case-sensitive) wins and makes it a motorcycle
// line; otherwise productID must be set.
func ParseLineRef(productID *uuid.UUID, notes string) (LineRef, error) {
	if strings.HasPrefix(notes, MotorcycleMarker) {
		if productID != nil && *productID != uuid.Nil {
			return LineRef{}, ErrAmbiguousLineRef
		}
		rest := strings.Fields(strings.TrimPrefix(notes, MotorcycleMarker))
		if len(rest) == 0 {
			return LineRef{}, ErrInvalidLineRef
		}
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return LineRef{}, ErrInvalidLineRef
		}
		return LineRef{Kind: ItemKindMotorcycle, MotorcycleID: &id}, nil
	}

	if productID == nil || *productID == uuid.Nil {
		return LineRef{}, ErrInvalidLineRef
	}
	id := *productID
	return LineRef{Kind: ItemKindProduct, ProductID: &id}, nil
}

// MotorcycleNote renders the legacy marker for a motorcycle id.
func MotorcycleNote(id uuid.UUID) string {
	return MotorcycleMarker + id.String()
}

// LineItem holds the fields shared by draft, sale and invoice lines.
type LineItem struct {
	Kind         ItemKind        `gorm:"type:varchar(20);not null" json:"kind"`
	ProductID    *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	MotorcycleID *uuid.UUID      `gorm:"type:uuid;index" json:"motorcycle_id,omitempty"`
	Description  string          `gorm:"type:varchar(255)" json:"description"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"unit_price"`
	Discount     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"discount"`
	TaxRate      decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0" json:"tax_rate"`
	Total        decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total"`
	Notes        string          `gorm:"type:text" json:"notes"`
	SortOrder    int             `gorm:"not null;default:0" json:"sort_order"`
}

func (l LineItem) Ref() LineRef {
	return LineRef{Kind: l.Kind, ProductID: l.ProductID, MotorcycleID: l.MotorcycleID}
}

func (l LineItem) IsMotorcycle() bool {
	return l.Kind == ItemKindMotorcycle
}

func (l LineItem) PricingLine() pricing.Line {
	return pricing.Line{
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Discount:  l.Discount,
		TaxRate:   l.TaxRate,
	}
}

// InferCurrency is USD when any line is a motorcycle line, IQD otherwise.
func InferCurrency(lines []LineItem) Currency {
	for _, l := range lines {
		if l.IsMotorcycle() {
			return CurrencyUSD
		}
	}
	return CurrencyIQD
}
