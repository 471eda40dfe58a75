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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pricing-api/internal/application/billing"
	appcurrency "github.com/jhoicas/pricing-api/internal/application/currency"
	"github.com/jhoicas/pricing-api/internal/application/ports"
	"github.com/jhoicas/pricing-api/internal/application/usecase"
	infracurrency "github.com/jhoicas/pricing-api/internal/infrastructure/currency"
	"github.com/jhoicas/pricing-api/internal/infrastructure/metrics"
	"github.com/jhoicas/pricing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pricing-api/internal/infrastructure/ratecache"
	httpRouter "github.com/jhoicas/pricing-api/internal/interfaces/http"
	"github.com/jhoicas/pricing-api/pkg/config"
	"github.com/jhoicas/pricing-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

//go:generate go tool swag init --dir ../.. --generalInfo cmd/api/main.go --output ../../docs --outputTypes json

// @title                       Pricing API
// @version                     1.0
// @description                 Motor de precios e impuestos para facturas y cotizaciones.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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
		Str("base_currency", cfg.Currency.BaseCurrency).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	appMetrics := metrics.New(metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})

	// Caché de tasas: Redis si está configurado (compartida entre réplicas), si no en memoria.
	var rateCache ports.RateCache
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; las tasas se pedirán al proveedor")
		}
		rateCache = ratecache.NewRedisCache(rdb, cfg.Currency.RateTTL, log.Component("ratecache"))
	} else {
		rateCache = ratecache.NewMemoryCache(cfg.Currency.RateTTL)
	}

	rateProvider := infracurrency.NewHTTPRateProvider(cfg.Currency.ServiceURL, cfg.Currency.Timeout)
	normalizer := appcurrency.NewNormalizer(rateProvider, rateCache, appMetrics, log.Component("currency"))

	documentRepo := postgres.NewDocumentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	documentUC := billing.NewDocumentUseCase(txRunner, documentRepo, normalizer, cfg.Currency.BaseCurrency, log.Component("documents"))
	pricingUC := usecase.NewPricingUseCase(normalizer)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Pricing API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DocumentUC:  documentUC,
		PricingUC:   pricingUC,
		Metrics:     appMetrics,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		DeleteRoles: cfg.JWT.DeleteRoles,
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
