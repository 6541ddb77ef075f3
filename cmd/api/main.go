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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/sales"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/retail-pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-pos-api/internal/interfaces/http"
	"github.com/jhoicas/retail-pos-api/pkg/config"
	"github.com/jhoicas/retail-pos-api/pkg/idempotency"
	"github.com/jhoicas/retail-pos-api/pkg/logger"
	"github.com/jhoicas/retail-pos-api/pkg/metrics"
	"github.com/jhoicas/retail-pos-api/pkg/redis"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.MigrationsAuto {
		if err := postgres.Migrate(postgres.MigrationURL(cfg.DB), "up", 0); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin él no se controla Idempotency-Key.
	var guard *idempotency.Guard
	if cfg.Redis.Enabled() {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		guard, err = idempotency.NewGuard(rdb, cfg.Idempotency.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("idempotency")
		}
	} else {
		log.Warn().Msg("Redis no configurado: Idempotency-Key deshabilitado")
	}

	var (
		registry *prometheus.Registry
		m        *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(registry)
	}

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	businessUC := usecase.NewBusinessUseCase(businessRepo)
	userUC := usecase.NewUserUseCase(userRepo, businessRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo, m)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, saleRepo)
	saleUC := sales.NewSaleUseCase(txRunner, productRepo, saleRepo, businessRepo, infrapdf.NewReceiptGenerator(), m)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	if m != nil {
		app.Use(httpRouter.Metrics(m))
	}

	// Swagger UI en local: http://localhost:<port>/docs (requiere generar docs con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Retail POS API",
		}))
	}

	deps := httpRouter.RouterDeps{
		AuthUC:     authUC,
		BusinessUC: businessUC,
		UserUC:     userUC,
		ProductUC:  productUC,
		LedgerUC:   ledgerUC,
		Restock:    replenishmentUC,
		SaleUC:     saleUC,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
	}
	if guard != nil {
		deps.Idempotency = guard
	}
	if registry != nil {
		deps.Gatherer = registry
	}
	httpRouter.Router(app, deps)

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
