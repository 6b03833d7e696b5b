package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/catalog"
	"github.com/tu-usuario/retail-pos/internal/application/purchasing"
	"github.com/tu-usuario/retail-pos/internal/application/quotes"
	"github.com/tu-usuario/retail-pos/internal/application/reporting"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	infrapdf "github.com/tu-usuario/retail-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/postgres"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/rediscache"
	httpRouter "github.com/tu-usuario/retail-pos/internal/interfaces/http"
	"github.com/tu-usuario/retail-pos/pkg/config"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de reportes. Sin REDIS_ADDR la aplicación funciona sin caché.
	cache, err := rediscache.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer cache.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	draftRepo := postgres.NewSaleDraftRepository(pool)
	invoiceRepo := postgres.NewPurchaseInvoiceRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	receiptGen := infrapdf.NewMarotoReceiptGenerator()

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := catalog.NewProductUseCase(productRepo)
	supplierUC := catalog.NewSupplierUseCase(supplierRepo)
	draftUC := sales.NewDraftUseCase(draftRepo, productRepo)
	saleUC := sales.NewSaleUseCase(
		txRunner, saleRepo, productRepo, draftRepo, tenantRepo,
		cache, receiptGen, log,
	)
	invoiceUC := purchasing.NewInvoiceUseCase(
		txRunner, invoiceRepo, supplierRepo, productRepo, cache, log,
	)
	quoteUC := quotes.NewQuoteUseCase(txRunner, quoteRepo, productRepo, cache, log)
	reportUC := reporting.NewReportUseCase(
		ledgerRepo, stockRepo, productRepo,
		cache, time.Duration(cfg.Redis.TTLMinutes)*time.Minute, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		DraftUC:    draftUC,
		SaleUC:     saleUC,
		InvoiceUC:  invoiceUC,
		QuoteUC:    quoteUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
