package handler

import (
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Handlers struct {
	Sales     *SaleHandler
	Inventory *InventoryHandler
	Products  *ProductHandler
	Customers *CustomerHandler
	Employees *EmployeeHandler
	Reports   *ReportHandler
	Auth      *AuthHandler
}

type AppOptions struct {
	Name string
	// RequestLog turns on fiber's access log
	RequestLog bool
}

// NewApp builds the fiber app with the shared error envelope and middleware stack
func NewApp(opts AppOptions, log *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ErrorHandler: NewErrorHandler(log),
	})

	if opts.RequestLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics(m))

	return app
}

func RegisterRoutes(router fiber.Router, h Handlers, g middleware.Guards) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ AUTH ============
	auth := router.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", h.Auth.Me)

	// ============ SALES ============
	router.Post("/sales", g.Seller, h.Sales.CreateSale)
	router.Get("/sales", h.Sales.GetSales)
	router.Get("/sales/:id", h.Sales.GetSale)
	router.Post("/sales/:id/fulfillment", g.Authenticated, h.Sales.FulfillSale)

	// ============ INVENTORY ============
	router.Put("/inventory/:productId", g.Admin, h.Inventory.UpdateInventory)
	router.Get("/inventory/:productId", h.Inventory.GetInventory)

	// ============ REFERENCE DATA ============
	router.Get("/products", h.Products.GetProducts)
	router.Get("/products/:id", h.Products.GetProduct)
	router.Post("/products", g.Admin, h.Products.CreateProduct)
	router.Put("/products/:id", g.Admin, h.Products.UpdateProduct)

	router.Get("/customers", h.Customers.GetCustomers)
	router.Get("/customers/:id", h.Customers.GetCustomer)
	router.Post("/customers", g.Authenticated, h.Customers.CreateCustomer)
	router.Put("/customers/:id", g.Authenticated, h.Customers.UpdateCustomer)

	router.Get("/employees", h.Employees.GetEmployees)
	router.Get("/employees/:id", h.Employees.GetEmployee)
	router.Post("/employees", g.Admin, h.Employees.CreateEmployee)
	router.Put("/employees/:id", g.Admin, h.Employees.UpdateEmployee)

	// ============ REPORTS ============
	router.Get("/reports/commissions", h.Reports.GetQuarterlyCommissions)
	router.Get("/reports/commissions/employees/:id", h.Reports.GetEmployeeCommission)
}
