package service

import (
	"context"
	"strings"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type ProductRequest struct {
	ProductType          string `json:"productType" validate:"required,max=200"`
	Name                 string `json:"name" validate:"required,max=200"`
	Description          string `json:"description" validate:"max=1000"`
	Supplier             string `json:"supplier" validate:"required,max=200"`
	CostPrice            string `json:"costPrice" validate:"required,decimal"`
	RetailPrice          string `json:"retailPrice" validate:"required,decimal"`
	CommissionPercentage string `json:"commissionPercentage" validate:"required,decimal"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	log         *zap.Logger
}

func NewProductService(products repository.ProductRepository, log *zap.Logger) ProductService {
	return &productService{productRepo: products, log: log.Named("products")}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	product := &model.Product{}
	if err := applyProduct(product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id)
	}
	if err := applyProduct(product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, lookupError(err, "product", id)
	}
	return product, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id)
	}
	return product, nil
}

// applyProduct validates req and copies it onto p
func applyProduct(p *model.Product, req *ProductRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	cost, err := ParseMoney("costPrice", req.CostPrice)
	if err != nil {
		return err
	}
	retail, err := ParseMoney("retailPrice", req.RetailPrice)
	if err != nil {
		return err
	}
	pct, err := ParseMoney("commissionPercentage", req.CommissionPercentage)
	if err != nil {
		return err
	}
	if pct.GreaterThan(hundred) {
		return invalidArgument("commissionPercentage must be between 0 and 100")
	}

	p.ProductType = strings.TrimSpace(req.ProductType)
	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.Supplier = strings.TrimSpace(req.Supplier)
	p.CostPrice = cost
	p.RetailPrice = retail
	p.CommissionPercentage = pct
	return nil
}
