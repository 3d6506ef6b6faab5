package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EntityType string

const (
	EntityProduct    EntityType = "PRODUCT"
	EntityMotorcycle EntityType = "MOTORCYCLE"
	EntityCustomer   EntityType = "CUSTOMER"
)

type ActivityType string

const (
	ActivityCreated           ActivityType = "CREATED"
	ActivityUpdated           ActivityType = "UPDATED"
	ActivityStockAdded        ActivityType = "STOCK_ADDED"
	ActivityStockReduced      ActivityType = "STOCK_REDUCED"
	ActivityStockAdjusted     ActivityType = "STOCK_ADJUSTED"
	ActivityPriceChanged      ActivityType = "PRICE_CHANGED"
	ActivityImageChanged      ActivityType = "IMAGE_CHANGED"
	ActivityCategoryChanged   ActivityType = "CATEGORY_CHANGED"
	ActivityAttachmentAdded   ActivityType = "ATTACHMENT_ADDED"
	ActivityAttachmentRemoved ActivityType = "ATTACHMENT_REMOVED"
	ActivityInvoiced          ActivityType = "INVOICED"
	ActivityDeleted           ActivityType = "DELETED"
)

// Activity is an append-only audit row. Changes maps a field name to
// {"old": ..., "new": ...}.
type Activity struct {
	RowModel
	EntityType  EntityType        `gorm:"type:varchar(20);not null;index:idx_activity_entity" json:"entity_type"`
	EntityID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_activity_entity" json:"entity_id"`
	Type        ActivityType      `gorm:"type:varchar(30);not null" json:"type"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Changes     datatypes.JSONMap `gorm:"type:jsonb" json:"changes"`
	InvoiceID   *uuid.UUID        `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	CreatedBy   string            `gorm:"type:varchar(255);not null" json:"created_by"`
}

// Change builds one entry of the Changes map.
func Change(oldValue, newValue any) map[string]any {
	return map[string]any{"old": oldValue, "new": newValue}
}
