package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/pkg/logger"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

type recorderSpy struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (r *recorderSpy) RecordCalculation(priceType string, items int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, priceType)
	r.errs = append(r.errs, err)
}

func defaults(t *testing.T) billing.Defaults {
	t.Helper()
	d, err := billing.DefaultsFromConfig("EUR", -1, 10, "net")
	require.NoError(t, err)
	return d
}

func newUseCase(t *testing.T, rec billing.CalculationRecorder) *billing.CalculateInvoiceUseCase {
	return billing.NewCalculateInvoiceUseCase(defaults(t), logger.Nop(), rec)
}

func scenarioRequest(priceType string) dto.CalculateInvoiceRequest {
	if priceType == "gross" {
		return dto.CalculateInvoiceRequest{
			PriceType: "gross",
			Items: []dto.LineItemRequest{
				{UnitPrice: "29.75", TaxRate: dto.AmountPtr("19")},
				{UnitPrice: "142.8", Quantity: dto.AmountPtr("12.4"), TaxRate: dto.AmountPtr("19")},
			},
		}
	}
	return dto.CalculateInvoiceRequest{
		PriceType: priceType,
		Items: []dto.LineItemRequest{
			{UnitPrice: "25", TaxRate: dto.AmountPtr("19")},
			{UnitPrice: "120", Quantity: dto.AmountPtr("12.4"), TaxRate: dto.AmountPtr("19")},
		},
	}
}

func TestCalculate_Neto(t *testing.T) {
	rec := &recorderSpy{}
	resp, err := newUseCase(t, rec).Calculate(context.Background(), scenarioRequest("net"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, int32(2), resp.Precision)
	assert.Equal(t, "net", resp.PriceType)
	assert.Equal(t, "1513.00", resp.NetTotal)
	assert.Equal(t, "1800.47", resp.GrossTotal)
	assert.Equal(t, "287.47", resp.TaxTotal)

	require.Len(t, resp.Taxes, 1)
	assert.Nil(t, resp.Taxes[0].Name)
	require.NotNil(t, resp.Taxes[0].Rate)
	assert.Equal(t, "19", *resp.Taxes[0].Rate)
	assert.Equal(t, "1513.00", resp.Taxes[0].Base)
	assert.Equal(t, "287.47", resp.Taxes[0].Total)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "1", resp.Items[0].Quantity)
	assert.Equal(t, "1488.00", resp.Items[1].RoundedTotal)

	assert.Equal(t, []string{"net"}, rec.calls)
	assert.Nil(t, rec.errs[0])
}

func TestCalculate_BrutoConGrupoNombrado(t *testing.T) {
	in := scenarioRequest("gross")
	in.Items[0].TaxName = "VAT"

	resp, err := newUseCase(t, nil).Calculate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "1513.00", resp.NetTotal)
	assert.Equal(t, "1800.47", resp.GrossTotal)
	require.Len(t, resp.Taxes, 2)
	require.NotNil(t, resp.Taxes[0].Name)
	assert.Equal(t, "VAT", *resp.Taxes[0].Name)
	assert.Equal(t, "4.75", resp.Taxes[0].Total)
	assert.Nil(t, resp.Taxes[1].Name)
	assert.Equal(t, "282.72", resp.Taxes[1].Total)
	require.NotNil(t, resp.Items[0].TaxName)
	assert.Nil(t, resp.Items[1].TaxName)
}

func TestCalculate_FacturaVacia(t *testing.T) {
	resp, err := newUseCase(t, nil).Calculate(context.Background(), dto.CalculateInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.NetTotal)
	assert.Equal(t, "0.00", resp.GrossTotal)
	assert.Equal(t, "0.00", resp.TaxTotal)
	assert.Empty(t, resp.Taxes)
	assert.Empty(t, resp.Items)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"taxes":[]`, "una factura sin impuestos serializa una lista vacía, no null")
}

func TestCalculate_Errores(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CalculateInvoiceRequest)
		want   error
		field  string
	}{
		{"tipo de precio", func(r *dto.CalculateInvoiceRequest) { r.PriceType = "mixed" }, domain.ErrInvalidPriceType, "price_type"},
		{"precio unitario", func(r *dto.CalculateInvoiceRequest) { r.Items[1].UnitPrice = "12,5" }, money.ErrInvalidDecimal, "items[1].unit_price"},
		{"cantidad", func(r *dto.CalculateInvoiceRequest) { r.Items[0].Quantity = dto.AmountPtr("x") }, money.ErrInvalidDecimal, "items[0].quantity"},
		{"descuento", func(r *dto.CalculateInvoiceRequest) { r.Items[0].Discount = dto.AmountPtr("") }, money.ErrInvalidDecimal, "items[0].discount"},
		{"tarifa", func(r *dto.CalculateInvoiceRequest) { r.Items[0].TaxRate = dto.AmountPtr("diez") }, money.ErrInvalidDecimal, "items[0].tax_rate"},
		{"moneda", func(r *dto.CalculateInvoiceRequest) { r.Currency = "EURO" }, domain.ErrInvalidCurrency, ""},
		{"precisión", func(r *dto.CalculateInvoiceRequest) { p := int32(-1); r.Precision = &p }, domain.ErrInvalidPrecision, "precision"},
		{"precisión sobre el máximo", func(r *dto.CalculateInvoiceRequest) { p := int32(10000000); r.Precision = &p }, domain.ErrInvalidPrecision, "precision"},
		{"escala", func(r *dto.CalculateInvoiceRequest) { s := int32(-3); r.WorkingScale = &s }, domain.ErrInvalidWorkingScale, "working_scale"},
		{"escala sobre el máximo", func(r *dto.CalculateInvoiceRequest) { s := int32(65); r.WorkingScale = &s }, domain.ErrInvalidWorkingScale, "working_scale"},
		{"exponente fuera de rango", func(r *dto.CalculateInvoiceRequest) { r.Items[0].UnitPrice = "1e999999999" }, money.ErrInvalidDecimal, "items[0].unit_price"},
		{"fecha", func(r *dto.CalculateInvoiceRequest) { r.InvoiceDate = "01/02/2016" }, domain.ErrInvalidInput, "invoice_date"},
		{"división por cero", func(r *dto.CalculateInvoiceRequest) {
			r.PriceType = "gross"
			r.Items[0].TaxRate = dto.AmountPtr("-100")
		}, money.ErrDivisionByZero, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorderSpy{}
			in := scenarioRequest("net")
			tt.mutate(&in)
			_, err := newUseCase(t, rec).Calculate(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "se esperaba %v, se obtuvo %v", tt.want, err)
			if tt.field != "" {
				assert.Contains(t, err.Error(), tt.field)
			}
			require.Len(t, rec.errs, 1)
			assert.Error(t, rec.errs[0])
			assert.Contains(t, []string{"net", "gross", "invalid"}, rec.calls[0])
		})
	}
}

func TestCalculate_EtiquetaDeMetricasAcotada(t *testing.T) {
	rec := &recorderSpy{}
	uc := newUseCase(t, rec)
	for i := 0; i < 50; i++ {
		in := scenarioRequest(fmt.Sprintf("junk-%d", i))
		_, err := uc.Calculate(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrInvalidPriceType)
	}

	// Un error posterior al tipo de precio conserva la etiqueta real.
	in := scenarioRequest("GROSS")
	in.Items[0].UnitPrice = "x"
	_, err := uc.Calculate(context.Background(), in)
	require.Error(t, err)

	require.Len(t, rec.calls, 51)
	for _, label := range rec.calls[:50] {
		assert.Equal(t, "invalid", label)
	}
	assert.Equal(t, "gross", rec.calls[50])
}

func TestBuildInvoice_Defaults(t *testing.T) {
	d, err := billing.DefaultsFromConfig("JPY", -1, 6, "gross")
	require.NoError(t, err)

	inv, err := billing.BuildInvoice(dto.CalculateInvoiceRequest{}, d)
	require.NoError(t, err)
	assert.Equal(t, "JPY", inv.Currency())
	assert.Equal(t, int32(0), inv.Precision())
	assert.Equal(t, money.WorkingScale(6), inv.WorkingScale())
	assert.Equal(t, entity.PriceGross, inv.PriceType())

	// Moneda explícita sin precisión: precisión ISO 4217 de esa moneda.
	inv, err = billing.BuildInvoice(dto.CalculateInvoiceRequest{Currency: "usd"}, d)
	require.NoError(t, err)
	assert.Equal(t, "USD", inv.Currency())
	assert.Equal(t, int32(2), inv.Precision())

	p := int32(4)
	inv, err = billing.BuildInvoice(dto.CalculateInvoiceRequest{Precision: &p}, d)
	require.NoError(t, err)
	assert.Equal(t, "JPY", inv.Currency())
	assert.Equal(t, int32(4), inv.Precision())
}

func TestBuildInvoice_Metadatos(t *testing.T) {
	in := dto.CalculateInvoiceRequest{
		InvoiceNumber:   "RE-12345",
		InvoiceDate:     "2016-01-01",
		DueDate:         "2016-02-01",
		CustomerNumber:  "99999",
		CustomerAddress: []string{"imos GmbH", "73037 Göppingen"},
		Commission:      "Partner 1",
		PaymentTerms:    "30 days strictly net",
		TaxIDs:          []dto.TaxIDRequest{{Label: "Ust-ID", Value: "DE999999999"}},
		ExtraInfo:       []string{"Payable by bank transfer."},
		Items: []dto.LineItemRequest{
			{Description: "Internet Widget", Reference: "IW-42", Unit: "pc.", UnitPrice: "127.29", Discount: dto.AmountPtr("25")},
		},
	}
	inv, err := billing.BuildInvoice(in, defaults(t))
	require.NoError(t, err)
	assert.Equal(t, "RE-12345", inv.InvoiceNumber())
	assert.Equal(t, 2016, inv.InvoiceDate().Year())
	assert.Equal(t, time.February, inv.DueDate().Month())
	assert.Equal(t, "99999", inv.CustomerNumber())
	assert.Len(t, inv.CustomerAddress(), 2)
	assert.Equal(t, "Partner 1", inv.Commission())
	assert.Equal(t, "30 days strictly net", inv.PaymentTerms())
	assert.Equal(t, []entity.TaxID{{Label: "Ust-ID", Value: "DE999999999"}}, inv.TaxIDs())
	assert.Equal(t, []string{"Payable by bank transfer."}, inv.ExtraInfo())

	items := inv.LineItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Internet Widget", items[0].Description())
	assert.False(t, items[0].Taxable())
}

func TestDefaultsFromConfig_Invalidos(t *testing.T) {
	_, err := billing.DefaultsFromConfig("EUR", -1, 10, "both")
	assert.ErrorIs(t, err, domain.ErrInvalidPriceType)

	_, err = billing.DefaultsFromConfig("???", -1, 10, "net")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	for _, p := range []int{-2, 19, 1<<32 + 2} {
		_, err = billing.DefaultsFromConfig("EUR", p, 10, "net")
		assert.ErrorIs(t, err, domain.ErrInvalidPrecision, "precisión %d", p)
	}
	for _, s := range []int{-1, 65, 1<<32 + 10} {
		_, err = billing.DefaultsFromConfig("EUR", -1, s, "net")
		assert.ErrorIs(t, err, domain.ErrInvalidWorkingScale, "escala %d", s)
	}

	d, err := billing.DefaultsFromConfig("EUR", 18, 64, "net")
	require.NoError(t, err)
	assert.Equal(t, int32(18), d.Precision)
	assert.Equal(t, money.MaxWorkingScale, d.WorkingScale)
}

func TestRound(t *testing.T) {
	uc := newUseCase(t, nil)

	resp, err := uc.Round(dto.RoundRequest{Value: "-1.255", Precision: 2})
	require.NoError(t, err)
	assert.Equal(t, "-1.26", resp.Value)

	_, err = uc.Round(dto.RoundRequest{Value: "1.2", Precision: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrecision)

	for _, p := range []int32{19, 10000000, 2147483647} {
		_, err = uc.Round(dto.RoundRequest{Value: "1.5", Precision: p})
		assert.ErrorIs(t, err, domain.ErrInvalidPrecision, "precisión %d", p)
	}

	resp, err = uc.Round(dto.RoundRequest{Value: "0.0000000000000000005", Precision: money.MaxPrecision})
	require.NoError(t, err)
	assert.Equal(t, "0.000000000000000001", resp.Value)

	_, err = uc.Round(dto.RoundRequest{Value: "1e-999999999", Precision: 2})
	assert.ErrorIs(t, err, money.ErrInvalidDecimal)

	_, err = uc.Round(dto.RoundRequest{Value: "uno", Precision: 2})
	assert.ErrorIs(t, err, money.ErrInvalidDecimal)
}
