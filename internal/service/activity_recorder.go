package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

// ActivityRecorder appends audit rows for stock-bearing entities. It writes
// through whichever repository it is handed, so inside a transaction the rows
// share its fate.
type ActivityRecorder struct{}

type ActivityEntry struct {
	EntityType  model.EntityType
	EntityID    uuid.UUID
	Type        model.ActivityType
	Description string
	Changes     map[string]any
	InvoiceID   *uuid.UUID
}

func (ActivityRecorder) Record(ctx context.Context, repo repository.ActivityRepository, entry ActivityEntry, actor Actor) error {
	activity := &model.Activity{
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Type:        entry.Type,
		Description: entry.Description,
		Changes:     datatypes.JSONMap(entry.Changes),
		InvoiceID:   entry.InvoiceID,
		CreatedBy:   actor.ID,
	}
	return repo.Create(ctx, activity)
}
