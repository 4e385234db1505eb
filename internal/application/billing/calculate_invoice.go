package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/internal/domain/invoicing"
	"github.com/jhoicas/invoice-engine/pkg/logger"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

const dateLayout = "2006-01-02"

// Defaults valores que se aplican cuando el request no los trae.
type Defaults struct {
	Currency     string
	Precision    int32 // < 0 = según la moneda
	WorkingScale money.WorkingScale
	PriceType    entity.PriceType
}

// DefaultsFromConfig valida y convierte la configuración BILLING_*.
func DefaultsFromConfig(currency string, precision, workingScale int, priceType string) (Defaults, error) {
	pt, err := entity.ParsePriceType(priceType)
	if err != nil {
		return Defaults{}, fmt.Errorf("BILLING_PRICE_TYPE: %w", err)
	}
	if currency != "" {
		if _, _, err := entity.ParseCurrency(currency); err != nil {
			return Defaults{}, fmt.Errorf("BILLING_CURRENCY: %w", err)
		}
	}
	// Se valida sobre int antes de convertir a int32 para no truncar valores grandes.
	if precision != -1 && (precision < 0 || precision > int(money.MaxPrecision)) {
		return Defaults{}, fmt.Errorf("BILLING_PRECISION %d: %w", precision, domain.ErrInvalidPrecision)
	}
	if workingScale < 0 || workingScale > int(money.MaxWorkingScale) {
		return Defaults{}, fmt.Errorf("BILLING_WORKING_SCALE %d: %w", workingScale, domain.ErrInvalidWorkingScale)
	}
	return Defaults{
		Currency:     currency,
		Precision:    int32(precision),
		WorkingScale: money.WorkingScale(workingScale),
		PriceType:    pt,
	}, nil
}

// CalculateInvoiceUseCase convierte un request en factura inmutable y calcula impuestos y totales.
// No guarda estado entre llamadas; es seguro usarlo desde varias goroutines.
type CalculateInvoiceUseCase struct {
	defaults Defaults
	log      *logger.Logger
	recorder CalculationRecorder
}

// NewCalculateInvoiceUseCase construye el caso de uso. recorder puede ser nil.
func NewCalculateInvoiceUseCase(defaults Defaults, log *logger.Logger, recorder CalculationRecorder) *CalculateInvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CalculateInvoiceUseCase{defaults: defaults, log: log, recorder: recorder}
}

// Calculate valida el request, construye la factura y devuelve el desglose.
func (uc *CalculateInvoiceUseCase) Calculate(ctx context.Context, in dto.CalculateInvoiceRequest) (*dto.InvoiceTotalsResponse, error) {
	start := time.Now()
	id := uuid.New().String()

	inv, err := BuildInvoice(in, uc.defaults)
	if err != nil {
		uc.record(priceTypeLabel(in.PriceType, uc.defaults.PriceType), len(in.Items), start, err)
		uc.log.Warn().Err(err).Str("calculation_id", id).Msg("request de factura inválido")
		return nil, err
	}

	summary, err := invoicing.NewTotals(inv).Summary()
	uc.record(inv.PriceType().String(), len(in.Items), start, err)
	if err != nil {
		uc.log.Warn().Err(err).Str("calculation_id", id).Msg("cálculo de impuestos fallido")
		return nil, err
	}

	resp := toResponse(id, inv, summary)
	uc.log.Debug().
		Str("calculation_id", id).
		Str("invoice_number", inv.InvoiceNumber()).
		Str("price_type", resp.PriceType).
		Int("items", len(resp.Items)).
		Str("tax_total", resp.TaxTotal).
		Str("gross_total", resp.GrossTotal).
		Msg("factura calculada")
	return resp, nil
}

// Round redondea un valor mitad alejándose de cero.
func (uc *CalculateInvoiceUseCase) Round(in dto.RoundRequest) (*dto.RoundResponse, error) {
	if !money.ValidPrecision(in.Precision) {
		return nil, fmt.Errorf("precision %d: %w", in.Precision, domain.ErrInvalidPrecision)
	}
	v, err := in.Value.Decimal()
	if err != nil {
		return nil, err
	}
	return &dto.RoundResponse{
		Value:     money.Round(v, in.Precision).String(),
		Precision: in.Precision,
	}, nil
}

// priceTypeLabel acota la etiqueta de métricas a net, gross o invalid; el texto
// del cliente nunca llega a Prometheus.
func priceTypeLabel(raw string, def entity.PriceType) string {
	if raw == "" {
		return def.String()
	}
	pt, err := entity.ParsePriceType(raw)
	if err != nil {
		return "invalid"
	}
	return pt.String()
}

func (uc *CalculateInvoiceUseCase) record(priceType string, items int, start time.Time, err error) {
	if uc.recorder == nil {
		return
	}
	uc.recorder.RecordCalculation(priceType, items, time.Since(start), err)
}

// BuildInvoice valida el request y construye la factura aplicando los valores por defecto.
// Los errores indican el campo (ej. "items[1].unit_price").
func BuildInvoice(in dto.CalculateInvoiceRequest, defaults Defaults) (*entity.Invoice, error) {
	b := entity.NewInvoiceBuilder().SetWorkingScale(defaults.WorkingScale)

	priceType := defaults.PriceType
	if in.PriceType != "" {
		pt, err := entity.ParsePriceType(in.PriceType)
		if err != nil {
			return nil, fmt.Errorf("price_type %q: %w", in.PriceType, err)
		}
		priceType = pt
	}
	b.SetPriceType(priceType)

	if err := applyCurrency(b, in, defaults); err != nil {
		return nil, err
	}
	if in.WorkingScale != nil {
		scale := money.WorkingScale(*in.WorkingScale)
		if !scale.Valid() {
			return nil, fmt.Errorf("working_scale %d: %w", scale, domain.ErrInvalidWorkingScale)
		}
		b.SetWorkingScale(scale)
	}

	b.SetInvoiceNumber(in.InvoiceNumber).
		SetCustomerNumber(in.CustomerNumber).
		SetCustomerAddress(in.CustomerAddress...).
		SetCommission(in.Commission).
		SetPaymentTerms(in.PaymentTerms)
	for _, tid := range in.TaxIDs {
		b.AddTaxID(tid.Label, tid.Value)
	}
	for _, info := range in.ExtraInfo {
		b.AddExtraInfo(info)
	}
	if in.InvoiceDate != "" {
		t, err := time.Parse(dateLayout, in.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("invoice_date: %w", domain.ErrInvalidInput)
		}
		b.SetInvoiceDate(t)
	}
	if in.DueDate != "" {
		t, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date: %w", domain.ErrInvalidInput)
		}
		b.SetDueDate(t)
	}

	for i, item := range in.Items {
		li, err := toLineItem(item)
		if err != nil {
			return nil, fmt.Errorf("items[%d].%w", i, err)
		}
		b.AddLineItem(li)
	}
	return b.Build()
}

func applyCurrency(b *entity.InvoiceBuilder, in dto.CalculateInvoiceRequest, defaults Defaults) error {
	code := in.Currency
	precision := defaults.Precision
	if code != "" {
		// Una moneda explícita sin precisión usa la de ISO 4217, no la del default.
		precision = -1
	} else {
		code = defaults.Currency
	}
	if in.Precision != nil {
		precision = *in.Precision
		if !money.ValidPrecision(precision) {
			return fmt.Errorf("precision %d: %w", precision, domain.ErrInvalidPrecision)
		}
	}

	switch {
	case code != "" && precision >= 0:
		b.SetCurrency(code, precision)
	case code != "":
		b.SetCurrencyCode(code)
	case precision >= 0:
		b.SetPrecision(precision)
	}
	return nil
}

func toLineItem(in dto.LineItemRequest) (entity.LineItem, error) {
	price, err := in.UnitPrice.Decimal()
	if err != nil {
		return entity.LineItem{}, fmt.Errorf("unit_price: %w", err)
	}
	li := entity.NewLineItem(price).
		WithDescription(in.Description).
		WithReference(in.Reference).
		WithUnit(in.Unit).
		WithTaxName(in.TaxName)

	if in.Quantity != nil {
		q, err := in.Quantity.Decimal()
		if err != nil {
			return entity.LineItem{}, fmt.Errorf("quantity: %w", err)
		}
		li = li.WithQuantity(q)
	}
	if in.Discount != nil {
		v, err := in.Discount.Decimal()
		if err != nil {
			return entity.LineItem{}, fmt.Errorf("discount: %w", err)
		}
		li = li.WithDiscount(v)
	}
	if in.TaxRate != nil {
		v, err := in.TaxRate.Decimal()
		if err != nil {
			return entity.LineItem{}, fmt.Errorf("tax_rate: %w", err)
		}
		li = li.WithTaxRate(v)
	}
	return li, nil
}

func toResponse(id string, inv *entity.Invoice, s invoicing.Breakdown) *dto.InvoiceTotalsResponse {
	p := inv.Precision()
	resp := &dto.InvoiceTotalsResponse{
		ID:            id,
		InvoiceNumber: inv.InvoiceNumber(),
		Currency:      inv.Currency(),
		Precision:     p,
		PriceType:     inv.PriceType().String(),
		NetTotal:      s.Net.StringFixed(p),
		GrossTotal:    s.Gross.StringFixed(p),
		TaxTotal:      s.TaxTotal.StringFixed(p),
		Taxes:         make([]dto.TaxResponse, 0, len(s.Taxes)),
	}
	for _, t := range s.Taxes {
		resp.Taxes = append(resp.Taxes, dto.TaxResponse{
			Name:  t.Name,
			Rate:  nullString(t.Rate),
			Base:  t.RawTotal.StringFixed(p),
			Total: t.Total.StringFixed(p),
		})
	}

	scale := inv.WorkingScale()
	items := inv.LineItems()
	resp.Items = make([]dto.LineItemResponse, 0, len(items))
	for _, li := range items {
		total := li.Total(scale)
		item := dto.LineItemResponse{
			Description:  li.Description(),
			Reference:    li.Reference(),
			Unit:         li.Unit(),
			Quantity:     li.Quantity().String(),
			UnitPrice:    li.UnitPrice().String(),
			Discount:     nullString(li.Discount()),
			TaxRate:      nullString(li.TaxRate()),
			Total:        total.String(),
			RoundedTotal: inv.Round(total).StringFixed(p),
		}
		if name, ok := li.TaxName(); ok {
			item.TaxName = &name
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func nullString(n decimal.NullDecimal) *string {
	if !n.Valid {
		return nil
	}
	s := n.Decimal.String()
	return &s
}
