package repository

import (
	"context"
	"time"

	"retail-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleFilter narrows FindAll. From and To are inclusive bounds on SaleDate.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Status *model.SaleStatus
}

// CommissionSummary aggregates one employee's sales over a period
type CommissionSummary struct {
	EmployeeID      uuid.UUID
	EmployeeName    string
	SaleCount       int64
	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error
	// CommissionSummaries covers sales with from <= sale_date < to, excluding cancelled ones.
	// A non-nil employeeID restricts the result to that seller.
	CommissionSummaries(ctx context.Context, from, to time.Time, employeeID *uuid.UUID) ([]CommissionSummary, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	query := r.db.WithContext(ctx)
	if filter.From != nil {
		query = query.Where("sale_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sale_date <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	err := query.Order("sale_date DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepo) CommissionSummaries(ctx context.Context, from, to time.Time, employeeID *uuid.UUID) ([]CommissionSummary, error) {
	var results []CommissionSummary

	query := r.db.WithContext(ctx).Table("sales").
		Select(`
			sales.sold_by_employee_id AS employee_id,
			employees.name AS employee_name,
			COUNT(*) AS sale_count,
			COALESCE(SUM(sales.sale_price), 0) AS total_sales,
			COALESCE(SUM(sales.commission_amount), 0) AS total_commission
		`).
		Joins("JOIN employees ON employees.id = sales.sold_by_employee_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from, to).
		Where("sales.status <> ?", model.SaleCancelled)
	if employeeID != nil {
		query = query.Where("sales.sold_by_employee_id = ?", *employeeID)
	}

	err := query.
		Group("sales.sold_by_employee_id, employees.name").
		Order("total_commission DESC").
		Scan(&results).Error
	return results, err
}
