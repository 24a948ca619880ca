package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the stock row for one (product, location) pair.
// Version is the optimistic concurrency token; every write bumps it.
type Inventory struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_location" json:"productId"`
	Location  Location  `gorm:"type:varchar(20);not null;uniqueIndex:idx_inventory_product_location" json:"location"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	Version   int64     `gorm:"not null;default:1" json:"version"`
}

// TableName pins the table name
func (Inventory) TableName() string {
	return "inventories"
}

type InventoryResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Location  Location  `json:"location"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Inventory) ToResponse() InventoryResponse {
	return InventoryResponse{
		ID:        i.ID,
		ProductID: i.ProductID,
		Location:  i.Location,
		Quantity:  i.Quantity,
		UpdatedAt: i.UpdatedAt,
	}
}
