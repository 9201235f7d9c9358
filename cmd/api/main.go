package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/pos-api/internal/application/service"
	"github.com/sangkips/pos-api/internal/config"
	"github.com/sangkips/pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-api/internal/domain/repository"
	"github.com/sangkips/pos-api/internal/infrastructure/database"
	"github.com/sangkips/pos-api/internal/infrastructure/repository"
	"github.com/sangkips/pos-api/internal/presentation/http/handler"
	"github.com/sangkips/pos-api/internal/presentation/http/routes"
	"github.com/sangkips/pos-api/pkg/logger"
	"github.com/sangkips/pos-api/pkg/printer"
	"github.com/sangkips/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: cfg.App.Name,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if cfg.Database.SeedDemo {
		if err := database.SeedDemoCatalog(ctx, db, log); err != nil {
			log.Warn().Err(err).Msg("Failed to seed demo catalog")
		}
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, brandRepo)
	cartService := service.NewCartService(catalogService, cfg.POS.DiscountMode, cfg.POS.SessionTTL, log)
	checkoutService := service.NewCheckoutService(cartService, saleRepo, cfg.POS.CheckoutTimeout, cfg.POS.Currency, log)
	saleService := service.NewSaleService(saleRepo, cfg.POS.Currency)
	printerService := service.NewPrinterService(thermalPrinter, saleService, service.PrinterOptions{
		Type:         cfg.Printer.Type,
		Width:        cfg.Printer.Width,
		Currency:     cfg.POS.Currency,
		DiscountMode: cfg.POS.DiscountMode,
		Header: entity.ReceiptHeader{
			StoreName: cfg.Business.Name,
			Address:   cfg.Business.Address,
			Phone:     cfg.Business.Phone,
		},
	}, log)

	go cartService.RunJanitor(ctx, time.Minute)
	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product: handler.NewProductHandler(catalogService),
		Cart:    handler.NewCartHandler(cartService, checkoutService),
		Sale:    handler.NewSaleHandler(saleService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.App.Env).Msgf("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.POS.CheckoutTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := thermalPrinter.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close printer")
	}
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge expired idempotency keys")
				continue
			}
			log.Debug().Int64("purged", purged).Msg("Purged expired idempotency keys")
		}
	}
}
