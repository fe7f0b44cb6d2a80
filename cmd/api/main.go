package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tably/internal/config"
	"tably/internal/database"
	"tably/internal/handler"
	"tably/internal/legacy"
	"tably/internal/repository"
	"tably/internal/router"
	"tably/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting tably API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Bring the schema up to date
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// One-time legacy backup import, resumable across restarts
	if cfg.Import.Enabled {
		if err := runLegacyImport(ctx, cfg.Import, pool, logger); err != nil {
			return fmt.Errorf("failed to import legacy backup: %w", err)
		}
	}

	// Initialize repositories
	ingredientRepo := repository.NewIngredientRepository(pool, logger)
	expenseRepo := repository.NewExpenseRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	employeeRepo := repository.NewEmployeeRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize services
	expenseService := service.NewExpenseService(expenseRepo, ingredientRepo, logger)
	inventoryService := service.NewInventoryService(ingredientRepo, logger)
	orderService := service.NewOrderService(orderRepo, cfg.Tax.Rate, logger)
	menuService := service.NewMenuService(menuRepo, logger)
	employeeService := service.NewEmployeeService(employeeRepo, logger)
	reportService := service.NewReportService(reportRepo, logger)

	// Initialize HTTP handlers
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)
	ingredientHandler := handler.NewIngredientHandler(inventoryService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	menuHandler := handler.NewMenuHandler(menuService, logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	// Initialize router
	mux := router.New(
		expenseHandler,
		ingredientHandler,
		orderHandler,
		menuHandler,
		employeeHandler,
		reportHandler,
		cfg.Auth.APIKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// runLegacyImport copies the legacy key/value backup into the structured
// store. Sources come from the local backup directory or S3 depending on
// configuration; collections already recorded in import_log are skipped.
func runLegacyImport(ctx context.Context, cfg config.ImportConfig, pool *pgxpool.Pool, logger zerolog.Logger) error {
	var loader legacy.Loader
	var err error

	sources := make(map[string]string)

	if cfg.S3Bucket != "" {
		loader, err = legacy.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			return err
		}
		for _, collection := range legacy.Collections() {
			sources[collection] = cfg.S3Prefix + collection + ".jsonl.gz"
		}
	} else {
		loader = legacy.NewFileLoader(logger)
		for _, collection := range legacy.Collections() {
			sources[collection] = filepath.Join(cfg.Dir, collection+".jsonl.gz")
		}
	}

	importer := legacy.NewImporter(pool, loader, logger)
	return importer.Run(ctx, sources)
}
