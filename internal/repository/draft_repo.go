package repository

import (
	"context"

	"go-erp-sales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftFilter struct {
	CreatedByUserID string
	Status          model.DraftStatus
}

type DraftRepository interface {
	Create(ctx context.Context, draft *model.Draft) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	Update(ctx context.Context, draft *model.Draft) error
	ReplaceItems(ctx context.Context, draftID uuid.UUID, items []model.DraftItem) error
	List(ctx context.Context, filter DraftFilter) ([]model.Draft, error)
}

type draftRepo struct {
	db *gorm.DB
}

func NewDraftRepo(db *gorm.DB) DraftRepository {
	return &draftRepo{db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *draftRepo) Create(ctx context.Context, draft *model.Draft) error {
	return translate(r.db.WithContext(ctx).Create(draft).Error)
}

func (r *draftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	var draft model.Draft
	err := r.db.WithContext(ctx).Preload("Items", orderedItems).First(&draft, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &draft, nil
}

// FindByIDForUpdate locks the draft row, then loads its items with a plain
// read. Callers must be inside a transaction for the lock to hold.
func (r *draftRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	var draft model.Draft
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&draft, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := r.db.WithContext(ctx).
		Where("draft_id = ?", draft.ID).
		Order("sort_order ASC").
		Find(&draft.Items).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// Update saves the header only. Items are written through ReplaceItems.
func (r *draftRepo) Update(ctx context.Context, draft *model.Draft) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(draft).Error)
}

func (r *draftRepo) ReplaceItems(ctx context.Context, draftID uuid.UUID, items []model.DraftItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("draft_id = ?", draftID).Delete(&model.DraftItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DraftID = draftID
	}
	return translate(db.Create(&items).Error)
}

func (r *draftRepo) List(ctx context.Context, filter DraftFilter) ([]model.Draft, error) {
	var drafts []model.Draft
	q := r.db.WithContext(ctx).Preload("Items", orderedItems)
	if filter.CreatedByUserID != "" {
		q = q.Where("created_by_user_id = ?", filter.CreatedByUserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Order("created_at DESC").Find(&drafts).Error
	return drafts, err
}
