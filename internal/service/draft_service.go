package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
	"go-erp-sales/internal/ws"
	"go-erp-sales/pkg/pricing"
	"go-erp-sales/pkg/validator"
)

type DraftItemInput struct {
	ProductID    *uuid.UUID      `json:"product_id"`
	MotorcycleID *uuid.UUID      `json:"motorcycle_id"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Notes        string          `json:"notes"`
}

type DraftInput struct {
	Type       model.DraftType  `json:"type" validate:"required,oneof=RETAIL WHOLESALE"`
	CustomerID *uuid.UUID       `json:"customer_id"`
	Items      []DraftItemInput `json:"items" validate:"dive"`
	Discount   decimal.Decimal  `json:"discount"`
	Notes      string           `json:"notes"`
}

type DraftService interface {
	Create(ctx context.Context, in DraftInput, actor Actor) (*model.Draft, error)
	Update(ctx context.Context, id uuid.UUID, in DraftInput, actor Actor) (*model.Draft, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	List(ctx context.Context, status model.DraftStatus, actor Actor) ([]model.Draft, error)
	Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*model.Draft, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.DraftStatus, actor Actor) (*model.Draft, error)
	Finalize(ctx context.Context, id uuid.UUID, in FinalizeInput, actor Actor) (*FinalizeResult, error)
}

type draftService struct {
	store    repository.Store
	poster   *SalePoster
	notifier ws.Notifier
	log      *zap.Logger
}

func NewDraftService(store repository.Store, poster *SalePoster, notifier ws.Notifier, log *zap.Logger) DraftService {
	if notifier == nil {
		notifier = ws.NopNotifier{}
	}
	return &draftService{store: store, poster: poster, notifier: notifier, log: log}
}

func validateStruct(in any) error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		first := errs[0]
		return validationErrorf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	return nil
}

// buildItems resolves every input line to a tagged product or motorcycle
// reference and prices it. Referenced entities must exist.
func (s *draftService) buildItems(ctx context.Context, repos repository.Repositories, inputs []DraftItemInput) ([]model.DraftItem, error) {
	items := make([]model.DraftItem, 0, len(inputs))
	for i, in := range inputs {
		if in.UnitPrice.IsNegative() || in.Discount.IsNegative() {
			return nil, validationErrorf("item %d: unit_price and discount must not be negative", i)
		}
		if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, validationErrorf("item %d: tax_rate must be between 0 and 1", i)
		}

		notes := in.Notes
		if in.MotorcycleID != nil && !strings.HasPrefix(notes, model.MotorcycleMarker) {
			notes = strings.TrimSpace(model.MotorcycleNote(*in.MotorcycleID) + " " + notes)
		}
		ref, err := model.ParseLineRef(in.ProductID, notes)
		if err != nil {
			return nil, validationErrorf("item %d: %s", i, err.Error())
		}
		if in.MotorcycleID != nil && *ref.MotorcycleID != *in.MotorcycleID {
			return nil, validationErrorf("item %d: motorcycle_id does not match notes marker", i)
		}

		description := in.Description
		if ref.Kind == model.ItemKindMotorcycle {
			m, err := repos.Motorcycles().FindByID(ctx, *ref.MotorcycleID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrMotorcycleNotFound, *ref.MotorcycleID)
			}
			if err != nil {
				return nil, err
			}
			if description == "" {
				description = m.DisplayName()
			}
		} else {
			p, err := repos.Products().FindByID(ctx, *ref.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, *ref.ProductID)
			}
			if err != nil {
				return nil, err
			}
			if description == "" {
				description = p.Name
			}
		}

		line := model.LineItem{
			Kind:         ref.Kind,
			ProductID:    ref.ProductID,
			MotorcycleID: ref.MotorcycleID,
			Description:  description,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			Discount:     in.Discount,
			TaxRate:      in.TaxRate,
			Notes:        notes,
			SortOrder:    i,
		}
		line.Total = pricing.LineTotal(line.PricingLine())
		items = append(items, model.DraftItem{LineItem: line})
	}
	return items, nil
}

func applyTotals(d *model.Draft) {
	lines := make([]pricing.Line, len(d.Items))
	for i, item := range d.Items {
		lines[i] = item.PricingLine()
	}
	totals := pricing.Compute(lines, d.Discount)
	d.Subtotal = totals.Subtotal
	d.TaxAmount = totals.TaxAmount
	d.Total = totals.Total
}

func (s *draftService) checkCustomer(ctx context.Context, repos repository.Repositories, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := repos.Customers().FindByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func validateDraftInput(in DraftInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Discount.IsNegative() {
		return validationErrorf("discount must not be negative")
	}
	return nil
}

func (s *draftService) Create(ctx context.Context, in DraftInput, actor Actor) (*model.Draft, error) {
	if err := validateDraftInput(in); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, s.store, in.CustomerID); err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, s.store, in.Items)
	if err != nil {
		return nil, err
	}

	draft := &model.Draft{
		Type:            in.Type,
		CustomerID:      in.CustomerID,
		Items:           items,
		Discount:        in.Discount,
		Notes:           in.Notes,
		Status:          model.DraftStatusCreated,
		CreatedByUserID: actor.ID,
	}
	draft.CreatedBy = actor.ID
	draft.UpdatedBy = actor.ID
	applyTotals(draft)

	if err := s.store.Drafts().Create(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, "created", actor)
	return draft, nil
}

// Update replaces header and items of an open draft owned by the actor.
func (s *draftService) Update(ctx context.Context, id uuid.UUID, in DraftInput, actor Actor) (*model.Draft, error) {
	if err := validateDraftInput(in); err != nil {
		return nil, err
	}

	var updated *model.Draft
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		draft, err := s.lockOwnedOpen(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		if err := s.checkCustomer(ctx, tx, in.CustomerID); err != nil {
			return err
		}
		items, err := s.buildItems(ctx, tx, in.Items)
		if err != nil {
			return err
		}

		draft.Type = in.Type
		draft.CustomerID = in.CustomerID
		draft.Discount = in.Discount
		draft.Notes = in.Notes
		draft.Items = items
		draft.UpdatedBy = actor.ID
		applyTotals(draft)

		if err := tx.Drafts().Update(ctx, draft); err != nil {
			return err
		}
		if err := tx.Drafts().ReplaceItems(ctx, draft.ID, draft.Items); err != nil {
			return err
		}
		updated = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(updated, "updated", actor)
	return updated, nil
}

func (s *draftService) lockOwnedOpen(ctx context.Context, tx repository.Repositories, id uuid.UUID, actor Actor) (*model.Draft, error) {
	draft, err := tx.Drafts().FindByIDForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	if draft.CreatedByUserID != actor.ID {
		return nil, ErrNotDraftOwner
	}
	if !draft.Status.Open() {
		return nil, ErrDraftNotOpen
	}
	return draft, nil
}

func (s *draftService) GetByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	draft, err := s.store.Drafts().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	return draft, err
}

// List returns the actor's own drafts, optionally filtered by status.
func (s *draftService) List(ctx context.Context, status model.DraftStatus, actor Actor) ([]model.Draft, error) {
	return s.store.Drafts().List(ctx, repository.DraftFilter{CreatedByUserID: actor.ID, Status: status})
}

// Cancel is terminal and has no stock or balance effect.
func (s *draftService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*model.Draft, error) {
	return s.transition(ctx, id, model.DraftStatusCancelled, actor)
}

// UpdateStatus only moves between CREATED and READY. FINALIZED is reached
// through Finalize and CANCELLED through Cancel.
func (s *draftService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DraftStatus, actor Actor) (*model.Draft, error) {
	if status != model.DraftStatusCreated && status != model.DraftStatusReady {
		return nil, ErrInvalidStatusTransition
	}
	return s.transition(ctx, id, status, actor)
}

func (s *draftService) transition(ctx context.Context, id uuid.UUID, status model.DraftStatus, actor Actor) (*model.Draft, error) {
	var updated *model.Draft
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Repositories) error {
		draft, err := s.lockOwnedOpen(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		draft.Status = status
		draft.UpdatedBy = actor.ID
		if err := tx.Drafts().Update(ctx, draft); err != nil {
			return err
		}
		updated = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(updated, strings.ToLower(string(status)), actor)
	return updated, nil
}

func (s *draftService) Finalize(ctx context.Context, id uuid.UUID, in FinalizeInput, actor Actor) (*FinalizeResult, error) {
	return s.poster.Finalize(ctx, id, in, actor)
}

func (s *draftService) publish(d *model.Draft, action string, actor Actor) {
	s.log.Debug("draft changed",
		zap.String("draft_id", d.ID.String()),
		zap.String("action", action),
		zap.String("status", string(d.Status)),
		zap.String("user_id", actor.ID),
	)
	s.notifier.Publish(ws.EventDraftChanged, map[string]any{
		"draft_id": d.ID,
		"action":   action,
		"status":   d.Status,
		"total":    d.Total,
		"user":     map[string]any{"id": actor.ID, "name": actor.Name},
	})
}
