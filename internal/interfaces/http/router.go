package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	Calculate   *billing.CalculateInvoiceUseCase
	Metrics     nethttp.Handler // nil = sin /metrics
	Tokens      TokenVerifier   // nil = API sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	if deps.Tokens != nil {
		// Rutas protegidas (requieren Bearer Token con rol de facturación)
		api.Use(AuthMiddleware(deps.Tokens), RequireRole(RoleBilling, RoleAdmin))
	}

	invoiceHandler := NewInvoiceHandler(deps.Calculate)
	api.Post("/invoices/calculate", invoiceHandler.Calculate)
	api.Post("/round", invoiceHandler.Round)
}
