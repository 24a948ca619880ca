package repository

import (
	"context"
	"errors"
	"time"

	"retail-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	// FindByProductAndLocation returns (nil, nil) when no stock row exists yet
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location model.Location) (*model.Inventory, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error)
	// Upsert sets the quantity of the (product, location) row, creating it if needed,
	// and always advances the version token.
	Upsert(ctx context.Context, productID uuid.UUID, location model.Location, quantity int) (*model.Inventory, error)
	// UpdateQuantity writes inv.Quantity only if the stored version still equals inv.Version.
	// On success inv.Version is advanced; a lost race yields ErrVersionConflict.
	UpdateQuantity(ctx context.Context, inv *model.Inventory) error
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location model.Location) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location = ?", productID, location).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) Upsert(ctx context.Context, productID uuid.UUID, location model.Location, quantity int) (*model.Inventory, error) {
	inv := model.Inventory{
		ProductID: productID,
		Location:  location,
		Quantity:  quantity,
		Version:   1,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "location"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   quantity,
			"version":    gorm.Expr("inventories.version + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&inv).Error
	if err != nil {
		return nil, err
	}

	// On conflict the surviving row keeps its own id and version, so read it back
	return r.FindByProductAndLocation(ctx, productID, location)
}

func (r *inventoryRepo) UpdateQuantity(ctx context.Context, inv *model.Inventory) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version).
		Updates(map[string]interface{}{
			"quantity":   inv.Quantity,
			"version":    inv.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	inv.Version++
	inv.UpdatedAt = now
	return nil
}
