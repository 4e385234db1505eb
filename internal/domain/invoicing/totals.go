package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

// Totals calcula los totales neto y bruto de una factura.
type Totals struct {
	inv   *entity.Invoice
	taxes *TaxAggregator
}

// NewTotals construye la calculadora de totales.
func NewTotals(inv *entity.Invoice) *Totals {
	return &Totals{inv: inv, taxes: NewTaxAggregator(inv)}
}

// LineItemSum es la suma de los totales de línea sin redondear, redondeada una sola vez.
// Puede diferir en el último dígito de la suma de los grupos de impuestos, que
// redondean cada línea por separado; ambos comportamientos son intencionales.
func (t *Totals) LineItemSum() decimal.Decimal {
	scale := t.inv.WorkingScale()
	sum := decimal.Zero
	for _, item := range t.inv.LineItems() {
		sum = money.Add(sum, item.Total(scale))
	}
	return t.inv.Round(sum)
}

// Total devuelve el total de la factura en la base pedida.
func (t *Totals) Total(requested entity.PriceType) (decimal.Decimal, error) {
	own := t.inv.PriceType()
	if requested == own {
		return t.LineItemSum(), nil
	}
	switch requested {
	case entity.PriceGross:
		taxTotal, err := t.taxes.TaxTotal()
		if err != nil {
			return decimal.Zero, err
		}
		return money.Add(t.LineItemSum(), taxTotal), nil
	case entity.PriceNet:
		taxTotal, err := t.taxes.TaxTotal()
		if err != nil {
			return decimal.Zero, err
		}
		return money.Sub(t.LineItemSum(), taxTotal), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %d", domain.ErrInvalidPriceType, int(requested))
}

// Breakdown resume una factura calculada en una sola pasada.
type Breakdown struct {
	PriceType   entity.PriceType
	LineItemSum decimal.Decimal
	Net         decimal.Decimal
	Gross       decimal.Decimal
	TaxTotal    decimal.Decimal
	Taxes       []TaxLine
}

// Summary calcula grupos, total de impuestos y totales neto y bruto.
// Equivale a llamar Taxes, TaxTotal y Total(neto/bruto) por separado.
func (t *Totals) Summary() (Breakdown, error) {
	taxes, err := t.taxes.Taxes()
	if err != nil {
		return Breakdown{}, err
	}
	taxTotal := sumTaxes(taxes)
	sum := t.LineItemSum()

	b := Breakdown{
		PriceType:   t.inv.PriceType(),
		LineItemSum: sum,
		TaxTotal:    taxTotal,
		Taxes:       taxes,
	}
	if b.PriceType == entity.PriceNet {
		b.Net = sum
		b.Gross = money.Add(sum, taxTotal)
	} else {
		b.Net = money.Sub(sum, taxTotal)
		b.Gross = sum
	}
	return b, nil
}
