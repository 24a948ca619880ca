// Package memory is a process-local storage backend with the same semantics as
// the gorm repositories, including version-token checks on inventory rows.
// It backs STORAGE=memory and the service and handler tests.
package memory

import (
	"sync"
	"time"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	products    map[uuid.UUID]model.Product
	customers   map[uuid.UUID]model.Customer
	employees   map[uuid.UUID]model.Employee
	inventories map[uuid.UUID]model.Inventory
	sales       map[uuid.UUID]model.Sale
}

func NewStore() *Store {
	return &Store{
		products:    make(map[uuid.UUID]model.Product),
		customers:   make(map[uuid.UUID]model.Customer),
		employees:   make(map[uuid.UUID]model.Employee),
		inventories: make(map[uuid.UUID]model.Inventory),
		sales:       make(map[uuid.UUID]model.Sale),
	}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepo{s}
}

func (s *Store) Customers() repository.CustomerRepository {
	return &customerRepo{s}
}

func (s *Store) Employees() repository.EmployeeRepository {
	return &employeeRepo{s}
}

func (s *Store) Inventories() repository.InventoryRepository {
	return &inventoryRepo{s}
}

func (s *Store) Sales() repository.SaleRepository {
	return &saleRepo{s}
}

// stamp mimics the BeforeCreate hook and gorm's auto timestamps
func stamp(base *model.BaseModel) {
	now := time.Now()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}
