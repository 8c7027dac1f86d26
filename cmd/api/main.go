package main

import (
	"context"
	"fmt"

	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/federated"
	"expensetracker/internal/logger"
	"expensetracker/internal/server"
	"expensetracker/internal/services"
	"expensetracker/internal/token"
	"expensetracker/internal/validator"
)

// @title           Expense Tracker API
// @version         1.0
// @description     Expense Tracker lets users record expenses and income against shared or personal categories and accounts.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration before the logger so LOG_LEVEL applies; a bad
	// config is still reported through the default logger.
	cfg, err := config.Load()
	if err == nil {
		logger.Init(cfg.Env, cfg.Log.Level)
	}
	defer logger.Sync()
	if err != nil {
		logger.Get().Fatalf("Fatal error: failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations and seed the shared defaults
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := database.SeedDefaults(ctx, dbManager.DB()); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	googleVerifier, err := federated.NewGoogleVerifier(ctx, cfg.Google)
	if err != nil {
		return fmt.Errorf("failed to create Google verifier: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	authService := services.NewAuthService(
		db,
		token.NewIssuer(cfg.JWT),
		googleVerifier,
		services.NewIdentityService(db),
		cfg.Bcrypt.Cost,
	)

	router := server.NewRouter(server.Deps{
		AuthService:        authService,
		CategoryService:    services.NewCategoryService(db),
		AccountService:     services.NewAccountService(db),
		TransactionService: services.NewTransactionService(db),
		Verifier:           token.NewVerifier(cfg.JWT),
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
	})

	log.Infof("Starting Expense Tracker server on port %s (driver %s)", cfg.Port, cfg.Database.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
