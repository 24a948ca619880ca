package repository

import (
	"context"

	"retail-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeFilter narrows FindAll; nil fields are ignored
type EmployeeFilter struct {
	Location *model.Location
	Role     *model.EmployeeRole
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindAll(ctx context.Context, filter EmployeeFilter) ([]model.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	UpdatePIN(ctx context.Context, id uuid.UUID, pinHash string) error
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) FindAll(ctx context.Context, filter EmployeeFilter) ([]model.Employee, error) {
	var employees []model.Employee
	query := r.db.WithContext(ctx)
	if filter.Location != nil {
		query = query.Where("location = ?", *filter.Location)
	}
	if filter.Role != nil {
		// roles is stored comma separated, so pad both sides to match whole tokens
		query = query.Where("(',' || roles || ',') LIKE ?", "%,"+string(*filter.Role)+",%")
	}
	err := query.Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepo) UpdatePIN(ctx context.Context, id uuid.UUID, pinHash string) error {
	result := r.db.WithContext(ctx).Model(&model.Employee{}).Where("id = ?", id).Update("pin_hash", pinHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
