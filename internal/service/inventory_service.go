package service

import (
	"context"
	"fmt"

	"retail-backoffice/internal/events"
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UpdateInventoryRequest struct {
	Location string `json:"location" validate:"required,location"`
	Quantity *int   `json:"quantity" validate:"required,min=0"`
}

type InventoryService interface {
	UpdateProductInventory(ctx context.Context, productID uuid.UUID, req *UpdateInventoryRequest) (*model.Inventory, error)
	GetProductInventory(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error)
	GetInventoryAt(ctx context.Context, productID uuid.UUID, location model.Location) (*model.Inventory, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	notifier      notifier
	metrics       *metrics.Metrics
	log           *zap.Logger
}

func NewInventoryService(
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) InventoryService {
	log = log.Named("inventory")
	return &inventoryService{
		productRepo:   products,
		inventoryRepo: inventory,
		notifier:      notifier{publisher: publisher, metrics: m, log: log},
		metrics:       m,
		log:           log,
	}
}

// UpdateProductInventory sets the absolute quantity for a (product, location) pair,
// creating the row on first use. Every call advances the row version, so sales
// racing against it reload before decrementing.
func (s *inventoryService) UpdateProductInventory(ctx context.Context, productID uuid.UUID, req *UpdateInventoryRequest) (*model.Inventory, error) {
	// 1. Product must exist
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupError(err, "product", productID)
	}

	// 2. Validate body
	if err := validate(req); err != nil {
		return nil, err
	}
	// validate has already checked the location tag
	location, _ := model.ParseLocation(req.Location)

	// 3. Upsert
	inv, err := s.inventoryRepo.Upsert(ctx, product.ID, location, *req.Quantity)
	if err != nil {
		return nil, err
	}
	s.metrics.InventoryUpserts.Inc()

	s.log.Info("Inventory set",
		zap.String("product_id", product.ID.String()),
		zap.String("location", string(location)),
		zap.Int("quantity", inv.Quantity),
		zap.Int64("version", inv.Version),
	)

	// 4. Broadcast
	s.notifier.notify(ctx, events.New(
		events.TypeStockUpdate, events.ActionInventoryUpdated, product.ID.String(),
		fmt.Sprintf("Stock of '%s' at %s set to %d", product.Name, location, inv.Quantity),
		inv.ToResponse(),
	))

	return inv, nil
}

func (s *inventoryService) GetProductInventory(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, lookupError(err, "product", productID)
	}
	return s.inventoryRepo.FindByProduct(ctx, productID)
}

// GetInventoryAt returns (nil, nil) when the product exists but has no row at location
func (s *inventoryService) GetInventoryAt(ctx context.Context, productID uuid.UUID, location model.Location) (*model.Inventory, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, lookupError(err, "product", productID)
	}
	return s.inventoryRepo.FindByProductAndLocation(ctx, productID, location)
}
