package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"

	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "IQ"

type CustomerInput struct {
	Name         string `json:"name" validate:"required"`
	SKU          string `json:"sku" validate:"required,numeric"`
	Phone        string `json:"phone"`
	NotifyOnSale bool   `json:"notify_on_sale"`
	NotifyOnDue  bool   `json:"notify_on_due"`
}

type CustomerService interface {
	Create(ctx context.Context, in CustomerInput, actor Actor) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	BalanceHistory(ctx context.Context, id uuid.UUID) ([]model.CustomerBalanceHistory, error)
}

type customerService struct {
	store repository.Store
	log   *zap.Logger
}

func NewCustomerService(store repository.Store, log *zap.Logger) CustomerService {
	return &customerService{store: store, log: log}
}

// NormalizePhone parses a number in the default region and returns it in
// E.164 form. An empty input stays empty.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", validationErrorf("phone number %q cannot be parsed", raw)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", validationErrorf("phone number %q is not valid", raw)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func (s *customerService) Create(ctx context.Context, in CustomerInput, actor Actor) (*model.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.Customers().FindBySKU(ctx, in.SKU); err == nil && existing != nil {
		return nil, ErrSKUTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer := &model.Customer{
		Name:         in.Name,
		SKU:          in.SKU,
		Phone:        phone,
		NotifyOnSale: in.NotifyOnSale,
		NotifyOnDue:  in.NotifyOnDue,
	}
	customer.CreatedBy = actor.ID
	customer.UpdatedBy = actor.ID

	if err := s.store.Customers().Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSKUTaken
		}
		return nil, err
	}
	s.log.Info("customer created", zap.String("customer_id", customer.ID.String()), zap.String("sku", customer.SKU))
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.store.Customers().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.store.Customers().FindAll(ctx)
}

func (s *customerService) BalanceHistory(ctx context.Context, id uuid.UUID) ([]model.CustomerBalanceHistory, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.BalanceHistory().ListByCustomer(ctx, id)
}
