package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	ProductType string `gorm:"type:varchar(200);not null" json:"productType"`
	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Description string `gorm:"type:varchar(1000);not null" json:"description"`
	Supplier    string `gorm:"type:varchar(200);not null" json:"supplier"`

	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"costPrice"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"retailPrice"`
	// Percentage, not a fraction: 8.5 means 8.5%.
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commissionPercentage"`
}

// ProductResponse renders monetary values as fixed two-decimal strings
type ProductResponse struct {
	ID                   uuid.UUID `json:"id"`
	ProductType          string    `json:"productType"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Supplier             string    `json:"supplier"`
	CostPrice            string    `json:"costPrice"`
	RetailPrice          string    `json:"retailPrice"`
	CommissionPercentage string    `json:"commissionPercentage"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:                   p.ID,
		ProductType:          p.ProductType,
		Name:                 p.Name,
		Description:          p.Description,
		Supplier:             p.Supplier,
		CostPrice:            p.CostPrice.StringFixed(2),
		RetailPrice:          p.RetailPrice.StringFixed(2),
		CommissionPercentage: p.CommissionPercentage.StringFixed(2),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
