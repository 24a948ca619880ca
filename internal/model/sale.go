package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SaleFulfilled SaleStatus = "FULFILLED"
	SaleCancelled SaleStatus = "CANCELLED"
)

func ParseSaleStatus(s string) (SaleStatus, error) {
	status := SaleStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case SalePending, SaleFulfilled, SaleCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown sale status %q", s)
}

// Sale is written once by the sale workflow. CommissionAmount is fixed at creation.
type Sale struct {
	BaseModel
	CustomerID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	SoldByEmployeeID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"soldByEmployeeId"`
	FulfilledByEmployeeID *uuid.UUID      `gorm:"type:uuid" json:"fulfilledByEmployeeId"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	Status                SaleStatus      `gorm:"type:varchar(20);not null" json:"status"`
	SalePrice             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"salePrice"`
	CommissionAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"commissionAmount"`
	SaleChannel           string          `gorm:"type:varchar(200);not null" json:"saleChannel"`
	Location              Location        `gorm:"type:varchar(20);not null" json:"location"`
	SaleDate              time.Time       `gorm:"not null;index" json:"saleDate"`
	FulfilledDate         *time.Time      `json:"fulfilledDate"`
}

// SaleResponse is the wire shape; money crosses the boundary as decimal strings
type SaleResponse struct {
	ID                    uuid.UUID  `json:"id"`
	CustomerID            uuid.UUID  `json:"customerId"`
	SoldByEmployeeID      uuid.UUID  `json:"soldByEmployeeId"`
	FulfilledByEmployeeID *uuid.UUID `json:"fulfilledByEmployeeId"`
	ProductID             uuid.UUID  `json:"productId"`
	Status                SaleStatus `json:"status"`
	SalePrice             string     `json:"salePrice"`
	CommissionAmount      string     `json:"commissionAmount"`
	SaleChannel           string     `json:"saleChannel"`
	Location              Location   `json:"location"`
	SaleDate              time.Time  `json:"saleDate"`
	FulfilledDate         *time.Time `json:"fulfilledDate"`
	CreatedAt             time.Time  `json:"createdAt"`
}

func (s *Sale) ToResponse() SaleResponse {
	return SaleResponse{
		ID:                    s.ID,
		CustomerID:            s.CustomerID,
		SoldByEmployeeID:      s.SoldByEmployeeID,
		FulfilledByEmployeeID: s.FulfilledByEmployeeID,
		ProductID:             s.ProductID,
		Status:                s.Status,
		SalePrice:             s.SalePrice.StringFixed(2),
		CommissionAmount:      s.CommissionAmount.StringFixed(2),
		SaleChannel:           s.SaleChannel,
		Location:              s.Location,
		SaleDate:              s.SaleDate,
		FulfilledDate:         s.FulfilledDate,
		CreatedAt:             s.CreatedAt,
	}
}

// SaleResponses maps a slice, preserving order
func SaleResponses(sales []Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i := range sales {
		out[i] = sales[i].ToResponse()
	}
	return out
}
