package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retail-backoffice/internal/config"
	"retail-backoffice/internal/events"
	"retail-backoffice/internal/handler"
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/middleware"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"
	"retail-backoffice/internal/repository/memory"
	"retail-backoffice/internal/service"
	"retail-backoffice/internal/ws"
	"retail-backoffice/pkg/database"
	"retail-backoffice/pkg/jwt"
	"retail-backoffice/pkg/logger"
	"retail-backoffice/pkg/tracing"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type repositories struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	employees repository.EmployeeRepository
	inventory repository.InventoryRepository
	sales     repository.SaleRepository
}

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv, config.ServiceName)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// 2. Tracing
	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.OtelEndpoint,
		AuthHeader:     cfg.OtelAuthHeader,
		URLPath:        config.TracesPath,
		ExportTimeout:  config.ExportTimeout,
		MaxQueueSize:   config.MaxQueueSize,
	})
	if err != nil {
		zlog.Error("Failed to setup OpenTelemetry tracing", zap.Error(err))
	}

	// 3. Storage
	repos, closeStorage := setupStorage(cfg, zlog)

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, repos, zlog); err != nil {
			zlog.Warn("Failed to seed demo data", zap.Error(err))
		}
	}

	// 4. Events: websocket hub always, broker when configured
	wsHub := ws.NewHub(zlog.Named("ws"))
	go wsHub.Run()

	publisher := events.Fanout{wsHub}
	switch cfg.EventsBroker {
	case config.BrokerKafka:
		writer := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = append(publisher, events.NewKafkaPublisher(writer))
		zlog.Info("Publishing events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	case config.BrokerRabbitMQ:
		rabbit, err := events.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQExchange, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		publisher = append(publisher, rabbit)
	}

	m := metrics.New()

	// 5. Dependency Injection (Wiring Layers)
	issuer := jwt.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	saleService := service.NewSaleService(repos.customers, repos.employees, repos.products, repos.inventory, repos.sales, publisher, m, zlog)
	invService := service.NewInventoryService(repos.products, repos.inventory, publisher, m, zlog)
	productService := service.NewProductService(repos.products, zlog)
	customerService := service.NewCustomerService(repos.customers)
	employeeService := service.NewEmployeeService(repos.employees, zlog)
	reportService := service.NewReportService(repos.sales, repos.employees)
	authService := service.NewAuthService(repos.employees, issuer, zlog)

	handlers := handler.Handlers{
		Sales:     handler.NewSaleHandler(saleService),
		Inventory: handler.NewInventoryHandler(invService),
		Products:  handler.NewProductHandler(productService),
		Customers: handler.NewCustomerHandler(customerService),
		Employees: handler.NewEmployeeHandler(employeeService),
		Reports:   handler.NewReportHandler(reportService),
		Auth:      handler.NewAuthHandler(authService),
	}

	// 6. Setup Fiber
	app := handler.NewApp(handler.AppOptions{Name: "Retail Back Office v1.0", RequestLog: true}, zlog, m)

	// 7. Routes
	handler.RegisterRoutes(app, handlers, middleware.NewGuards(authService, cfg.AuthRequired))
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Handler()))

	// 8. Graceful Shutdown
	go func() {
		zlog.Info("Listening", zap.String("port", cfg.Port), zap.String("storage", cfg.Storage), zap.Bool("auth_required", cfg.AuthRequired))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Panic("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := publisher.Close(); err != nil {
		zlog.Error("Failed to close event publishers", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("Failed to shutdown tracing", zap.Error(err))
	}
	if err := closeStorage(); err != nil {
		zlog.Error("Failed to close storage", zap.Error(err))
	}

	zlog.Info("Server exited")
}

func setupStorage(cfg *config.Config, zlog *zap.Logger) (repositories, func() error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		zlog.Warn("Using in-memory storage; data is lost on restart")
		return repositories{
			products:  store.Products(),
			customers: store.Customers(),
			employees: store.Employees(),
			inventory: store.Inventories(),
			sales:     store.Sales(),
		}, func() error { return nil }
	}

	db, err := database.Connect(database.Options{DSN: cfg.DSN(), Debug: !cfg.IsProduction()}, zlog)
	if err != nil {
		zlog.Fatal("Database unavailable", zap.Error(err))
	}
	// AutoMigrate is the only schema tooling; the unique (product_id, location) index comes from model tags
	if err := database.Migrate(db, &model.Product{}, &model.Customer{}, &model.Employee{}, &model.Inventory{}, &model.Sale{}); err != nil {
		zlog.Fatal("Migration failed", zap.Error(err))
	}

	return repositories{
		products:  repository.NewProductRepo(db),
		customers: repository.NewCustomerRepo(db),
		employees: repository.NewEmployeeRepo(db),
		inventory: repository.NewInventoryRepo(db),
		sales:     repository.NewSaleRepo(db),
	}, func() error { return database.Close(db) }
}
