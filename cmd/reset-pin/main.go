package main

import (
	"context"
	"flag"
	"log"

	"retail-backoffice/internal/config"
	"retail-backoffice/internal/repository"
	"retail-backoffice/internal/service"
	"retail-backoffice/pkg/database"
	"retail-backoffice/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	employeeID := flag.String("employee", "", "employee id")
	pin := flag.String("pin", "", "new numeric PIN (4-12 digits)")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Storage != config.StoragePostgres {
		log.Fatal("reset-pin only works against postgres storage")
	}

	id, err := uuid.Parse(*employeeID)
	if err != nil {
		log.Fatalf("Invalid -employee %q: %v", *employeeID, err)
	}

	zlog, err := logger.New(cfg.AppEnv, "reset-pin")
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.Connect(database.Options{DSN: cfg.DSN()}, zlog)
	if err != nil {
		zlog.Fatal("Database unavailable", zap.Error(err))
	}
	defer database.Close(db)

	// 3. Update
	employees := service.NewEmployeeService(repository.NewEmployeeRepo(db), zlog)
	if err := employees.SetPIN(context.Background(), id, *pin); err != nil {
		zlog.Fatal("Failed to reset PIN", zap.String("employee_id", id.String()), zap.Error(err))
	}

	zlog.Info("PIN reset", zap.String("employee_id", id.String()))
}
