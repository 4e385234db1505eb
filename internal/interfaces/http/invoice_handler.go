package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

// InvoiceHandler maneja las peticiones HTTP de cálculo de facturas.
type InvoiceHandler struct {
	uc *billing.CalculateInvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CalculateInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Calculate calcula impuestos y totales de la factura enviada.
// POST /api/invoices/calculate
func (h *InvoiceHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, err)
	}
	resp, err := h.uc.Calculate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Round redondea un valor mitad alejándose de cero.
// POST /api/round
func (h *InvoiceHandler) Round(c *fiber.Ctx) error {
	var in dto.RoundRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, err)
	}
	resp, err := h.uc.Round(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// writeError traduce errores de dominio a códigos HTTP. El mensaje incluye el campo afectado.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	var (
		fe  *fiber.Error
		se  *json.SyntaxError
		ute *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, money.ErrFloatInput):
		status, code = fiber.StatusBadRequest, "FLOAT_INPUT"
	case errors.Is(err, money.ErrInvalidDecimal):
		status, code = fiber.StatusBadRequest, "INVALID_DECIMAL"
	case errors.Is(err, domain.ErrInvalidPriceType):
		status, code = fiber.StatusBadRequest, "INVALID_PRICE_TYPE"
	case errors.Is(err, money.ErrDivisionByZero):
		status, code = fiber.StatusUnprocessableEntity, "DIVISION_BY_ZERO"
	case errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidPrecision),
		errors.Is(err, domain.ErrInvalidWorkingScale),
		errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.As(err, &se), errors.As(err, &ute):
		status, code = fiber.StatusBadRequest, "INVALID_BODY"
	case errors.As(err, &fe):
		status, code = fe.Code, "INVALID_BODY"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
