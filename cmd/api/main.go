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

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/invoice-engine/internal/interfaces/http"
	"github.com/jhoicas/invoice-engine/pkg/config"
	"github.com/jhoicas/invoice-engine/pkg/jwt"
	"github.com/jhoicas/invoice-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("currency", cfg.Billing.Currency).
		Str("price_type", cfg.Billing.PriceType).
		Msg("iniciando aplicación")

	defaults, err := billing.DefaultsFromConfig(
		cfg.Billing.Currency, cfg.Billing.Precision, cfg.Billing.WorkingScale, cfg.Billing.PriceType,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de facturación")
	}

	recorder := metrics.NewRecorder("invoice_engine")
	calculateUC := billing.NewCalculateInvoiceUseCase(defaults, log, recorder)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Invoice Engine API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
	}

	deps := httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		Calculate:   calculateUC,
		Metrics:     recorder.Handler(),
	}
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	} else {
		signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, entity.Roles()...)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración JWT")
		}
		deps.Tokens = signer
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
