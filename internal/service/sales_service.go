package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"go-erp-sales/internal/export"
	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

// SalesService is the read side of posted documents.
type SalesService interface {
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ExportInvoice(ctx context.Context, id uuid.UUID, w io.Writer) (*model.Invoice, error)
}

type salesService struct {
	store repository.Store
}

func NewSalesService(store repository.Store) SalesService {
	return &salesService{store: store}
}

func (s *salesService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.store.Sales().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

func (s *salesService) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.store.Invoices().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvoiceNotFound
	}
	return invoice, err
}

func (s *salesService) ExportInvoice(ctx context.Context, id uuid.UUID, w io.Writer) (*model.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := export.WriteInvoice(w, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
