package main

import (
	"context"

	"retail-backoffice/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// seedDemoData creates one of everything a sale needs, only when the catalog is empty
func seedDemoData(ctx context.Context, repos repositories, zlog *zap.Logger) error {
	existing, err := repos.products.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		zlog.Info("Demo data skipped, catalog not empty")
		return nil
	}

	// 1. Product
	product := &model.Product{
		ProductType:          "Road Bike",
		Name:                 "Velocity Pro 3000",
		Description:          "Lightweight carbon frame road bike",
		Supplier:             "Velocity Cycles",
		CostPrice:            decimal.RequireFromString("850.00"),
		RetailPrice:          decimal.RequireFromString("1299.99"),
		CommissionPercentage: decimal.RequireFromString("8.50"),
	}
	if err := repos.products.Create(ctx, product); err != nil {
		return err
	}

	// 2. Customer
	customer := &model.Customer{Name: "Jordan Avery"}
	if err := repos.customers.Create(ctx, customer); err != nil {
		return err
	}

	// 3. Employees
	seller := &model.Employee{
		Name:     "Sam Rivera",
		Location: model.LocationStore,
		Roles:    model.RoleSet{model.RoleSalesperson},
	}
	if err := seller.SetPIN("1234"); err != nil {
		return err
	}
	if err := repos.employees.Create(ctx, seller); err != nil {
		return err
	}

	admin := &model.Employee{
		Name:     "Store Manager",
		Location: model.LocationStore,
		Roles:    model.RoleSet{model.RoleSalesperson, model.RoleAdmin},
	}
	if err := admin.SetPIN("0000"); err != nil {
		return err
	}
	if err := repos.employees.Create(ctx, admin); err != nil {
		return err
	}

	// 4. Stock
	if _, err := repos.inventory.Upsert(ctx, product.ID, model.LocationStore, 10); err != nil {
		return err
	}

	zlog.Info("Demo data seeded",
		zap.String("product_id", product.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("salesperson_id", seller.ID.String()),
		zap.String("admin_id", admin.ID.String()),
	)
	return nil
}
