package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&product.BaseModel)
	r.s.products[product.ID] = *product
	return nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.s.products[product.ID] = *product
	return nil
}

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&customer.BaseModel)
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) FindAll(ctx context.Context, search string) ([]model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	customer.UpdatedAt = time.Now()
	r.s.customers[customer.ID] = *customer
	return nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&employee.BaseModel)
	r.s.employees[employee.ID] = *employee
	return nil
}

func (r *employeeRepo) FindAll(ctx context.Context, filter repository.EmployeeFilter) ([]model.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		if filter.Location != nil && e.Location != *filter.Location {
			continue
		}
		if filter.Role != nil && !e.Roles.Has(*filter.Role) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *employeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[employee.ID]; !ok {
		return repository.ErrNotFound
	}
	employee.UpdatedAt = time.Now()
	r.s.employees[employee.ID] = *employee
	return nil
}

func (r *employeeRepo) UpdatePIN(ctx context.Context, id uuid.UUID, pinHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.PINHash = pinHash
	e.UpdatedAt = time.Now()
	r.s.employees[id] = e
	return nil
}

type inventoryRepo struct{ s *Store }

// find expects the caller to hold the lock
func (r *inventoryRepo) find(productID uuid.UUID, location model.Location) (model.Inventory, bool) {
	for _, inv := range r.s.inventories {
		if inv.ProductID == productID && inv.Location == location {
			return inv, true
		}
	}
	return model.Inventory{}, false
}

func (r *inventoryRepo) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location model.Location) (*model.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.find(productID, location)
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Inventory
	for _, inv := range r.s.inventories {
		if inv.ProductID == productID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

func (r *inventoryRepo) Upsert(ctx context.Context, productID uuid.UUID, location model.Location, quantity int) (*model.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.find(productID, location)
	if ok {
		inv.Quantity = quantity
		inv.Version++
		inv.UpdatedAt = time.Now()
	} else {
		inv = model.Inventory{ProductID: productID, Location: location, Quantity: quantity, Version: 1}
		stamp(&inv.BaseModel)
	}
	r.s.inventories[inv.ID] = inv
	return &inv, nil
}

func (r *inventoryRepo) UpdateQuantity(ctx context.Context, inv *model.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.inventories[inv.ID]
	if !ok || stored.Version != inv.Version {
		return repository.ErrVersionConflict
	}
	stored.Quantity = inv.Quantity
	stored.Version++
	stored.UpdatedAt = time.Now()
	r.s.inventories[inv.ID] = stored

	inv.Version = stored.Version
	inv.UpdatedAt = stored.UpdatedAt
	return nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&sale.BaseModel)
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		if filter.From != nil && sale.SaleDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sale.SaleDate.After(*filter.To) {
			continue
		}
		if filter.Status != nil && sale.Status != *filter.Status {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	sale.Status = status
	sale.UpdatedAt = time.Now()
	r.s.sales[id] = sale
	return nil
}

func (r *saleRepo) CommissionSummaries(ctx context.Context, from, to time.Time, employeeID *uuid.UUID) ([]repository.CommissionSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byEmployee := make(map[uuid.UUID]*repository.CommissionSummary)
	for _, sale := range r.s.sales {
		if sale.SaleDate.Before(from) || !sale.SaleDate.Before(to) || sale.Status == model.SaleCancelled {
			continue
		}
		if employeeID != nil && sale.SoldByEmployeeID != *employeeID {
			continue
		}
		employee, ok := r.s.employees[sale.SoldByEmployeeID]
		if !ok {
			continue // inner join semantics
		}
		sum, ok := byEmployee[sale.SoldByEmployeeID]
		if !ok {
			sum = &repository.CommissionSummary{
				EmployeeID:      employee.ID,
				EmployeeName:    employee.Name,
				TotalSales:      decimal.Zero,
				TotalCommission: decimal.Zero,
			}
			byEmployee[sale.SoldByEmployeeID] = sum
		}
		sum.SaleCount++
		sum.TotalSales = sum.TotalSales.Add(sale.SalePrice)
		sum.TotalCommission = sum.TotalCommission.Add(sale.CommissionAmount)
	}

	out := make([]repository.CommissionSummary, 0, len(byEmployee))
	for _, sum := range byEmployee {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalCommission.GreaterThan(out[j].TotalCommission) })
	return out, nil
}
