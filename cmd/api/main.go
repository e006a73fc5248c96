package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/erp-core/internal/application/auth"
	"github.com/tu-usuario/erp-core/internal/application/billing"
	"github.com/tu-usuario/erp-core/internal/application/catalog"
	"github.com/tu-usuario/erp-core/internal/application/inventory"
	"github.com/tu-usuario/erp-core/internal/infrastructure/cache"
	infrapdf "github.com/tu-usuario/erp-core/internal/infrastructure/pdf"
	"github.com/tu-usuario/erp-core/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/erp-core/internal/interfaces/http"
	"github.com/tu-usuario/erp-core/pkg/config"
	"github.com/tu-usuario/erp-core/pkg/idgen"
	"github.com/tu-usuario/erp-core/pkg/logger"
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
		Str("reconcile_mode", cfg.Billing.ReconcileMode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	kitRepo := postgres.NewKitRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	taxCodeRepo := postgres.NewTaxCodeRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de listados: Redis si está configurado, nulo si no.
	var itemsCache inventory.ItemsCache = cache.NoopItemsCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisItemsCache(ctx, cfg.Redis.Addr, cfg.Redis.Password,
			cfg.Redis.DB, time.Duration(cfg.Redis.TTLSec)*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, listados sin caché")
		} else {
			itemsCache = redisCache
			defer redisCache.Close()
		}
	}

	numbers, err := idgen.New(cfg.Billing.NumberNode)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de números de documento")
	}

	taxCodeUC := catalog.NewTaxCodeUseCase(taxCodeRepo)
	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, kitRepo, taxCodeUC, itemsCache, log)
	customerUC := billing.NewCustomerUseCase(customerRepo)

	reconciler := billing.NewStockReconciler(billing.ParseMode(cfg.Billing.ReconcileMode), log)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, invoiceRepo, itemRepo, kitRepo, customerRepo,
		reconciler, numbers, cfg.Billing.AllowEmptyDocuments, log,
	)
	quotationUC := billing.NewQuotationUseCase(
		txRunner, quotationRepo, customerRepo, numbers, cfg.Billing.AllowEmptyDocuments, log,
	)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	pdfUC := billing.NewPDFUseCase(invoiceRepo, customerRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP Core API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		CustomerUC:  customerUC,
		InvoiceUC:   invoiceUC,
		QuotationUC: quotationUC,
		PDFUC:       pdfUC,
		TaxCodeUC:   taxCodeUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		PingDB:      pool.Ping,
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
