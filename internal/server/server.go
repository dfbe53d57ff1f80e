// Package server assembles the REST API.
package server

import (
	"context"
	"errors"
	"log"
	"strings"

	"wms-backend/internal/apperr"
	"wms-backend/internal/audit"
	"wms-backend/internal/catalog"
	"wms-backend/internal/config"
	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const (
	appName    = "WMS API"
	apiVersion = "1.0.0"
)

// ErrorHandler renders every error as {"detail": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Println("Query timed out:", err)
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"detail": "query timed out"})
	}

	code, detail, ok := apperr.Status(err)
	if !ok {
		log.Println("Unexpected error:", err)
	}
	return c.Status(code).JSON(fiber.Map{"detail": detail})
}

// New builds the API application on db.
func New(db *gorm.DB, cfg *config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		app.Use(limit)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    appName,
			"version": apiVersion,
			"docs":    "/api/v1",
		})
	})
	app.Get("/health", healthHandler(db))

	timeout := cfg.QueryTimeout
	api := app.Group("/api/v1")

	catalog.Register[models.Product, catalog.ProductInput](api.Group("/products"), catalog.NewProducts(db), timeout)
	catalog.Register[models.Supplier, catalog.SupplierInput](api.Group("/suppliers"), catalog.NewSuppliers(db), timeout)
	catalog.Register[models.Warehouse, catalog.WarehouseInput](api.Group("/warehouse"), catalog.NewWarehouses(db), timeout)
	catalog.Register[models.Staff, catalog.StaffInput](api.Group("/staff"), catalog.NewStaff(db), timeout)

	orders.Register(api.Group("/inbound"), orders.NewInbound(db), timeout)
	orders.Register(api.Group("/requisitions"), orders.NewRequisitions(db), timeout)

	api.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	return app, nil
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log.Println("Health check failed:", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": db.Dialector.Name()})
	}
}
