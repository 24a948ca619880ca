package service

import (
	"context"
	"strings"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
)

type CustomerRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	GetCustomers(ctx context.Context, search string) ([]model.Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customers}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	customer := &model.Customer{Name: strings.TrimSpace(req.Name)}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "customer", id)
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(req.Name)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, lookupError(err, "customer", id)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	return s.customerRepo.FindAll(ctx, search)
}

func (s *customerService) GetCustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "customer", id)
	}
	return customer, nil
}
