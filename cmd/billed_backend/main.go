package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/billed-app/billed-backend/internal/adapters/store/memory"
	"github.com/billed-app/billed-backend/internal/adapters/store/pgsql"
	"github.com/billed-app/billed-backend/internal/adapters/store/rest"
	"github.com/billed-app/billed-backend/internal/core/ports"
	"github.com/billed-app/billed-backend/internal/core/services"
	"github.com/billed-app/billed-backend/internal/handlers"
	"github.com/billed-app/billed-backend/internal/middleware"
	"github.com/billed-app/billed-backend/internal/platform/config"
	"github.com/billed-app/billed-backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Billed Backend API
// @version 1.0
// @description Expense bill listing and submission service.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	billStore, cleanup, err := buildBillStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize bill store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterCustomValidators()
	handlers.RegisterRoutes(r, cfg, services.NewBillService(billStore))

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildBillStore constructs the configured BillStore variant. The returned
// cleanup releases backend resources on shutdown.
func buildBillStore(cfg *config.Config, logger *slog.Logger) (ports.BillStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendRest:
		return rest.NewClient(cfg.RemoteStoreURL, cfg.RemoteStoreToken), func() {}, nil

	case config.StoreBackendMemory:
		logger.Warn("Using in-memory bill store; data will not survive a restart")
		return memory.NewSeededStore(), func() {}, nil

	case config.StoreBackendPostgres:
		pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgsql.NewBillStore(pool, cfg.PublicBaseURL), pool.Close, nil
	}
	// LoadConfig already rejected unknown backends.
	return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection, using the pgx stdlib driver to stay compatible
// with the main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
