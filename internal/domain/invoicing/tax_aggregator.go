// Package invoicing contiene los servicios de dominio que derivan impuestos y
// totales de una factura. No guarda estado entre llamadas: cada consulta se
// recalcula desde las líneas actuales.
package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

// TaxLine es el resultado de un grupo de impuestos (nombre, tarifa).
type TaxLine struct {
	Name     *string
	Rate     decimal.NullDecimal
	RawTotal decimal.Decimal // suma de los totales de línea ya redondeados, antes de aplicar la tarifa
	Total    decimal.Decimal // impuesto del grupo, redondeado a la precisión de la moneda
}

// NameOrEmpty devuelve el nombre o "" si el grupo no tiene nombre.
func (t TaxLine) NameOrEmpty() string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

// sameKey compara por valor: 19 y 19.00 son la misma tarifa.
func (t TaxLine) sameKey(name *string, rate decimal.NullDecimal) bool {
	if (t.Name == nil) != (name == nil) {
		return false
	}
	if t.Name != nil && *t.Name != *name {
		return false
	}
	if t.Rate.Valid != rate.Valid {
		return false
	}
	return !rate.Valid || t.Rate.Decimal.Equal(rate.Decimal)
}

// TaxAggregator agrupa las líneas de una factura por (nombre, tarifa) de impuesto.
type TaxAggregator struct {
	inv *entity.Invoice
}

// NewTaxAggregator construye el agregador para la factura.
func NewTaxAggregator(inv *entity.Invoice) *TaxAggregator {
	return &TaxAggregator{inv: inv}
}

// Taxes devuelve los grupos de impuestos en el orden en que aparecieron.
//
// Cada línea se redondea a la precisión de la moneda antes de sumarse a su
// grupo; las líneas sin nombre ni tarifa se ignoran. El impuesto del grupo se
// calcula una sola vez sobre la suma:
//
//	neto:  suma × tarifa/100
//	bruto: suma × (1 − 1/(1 + tarifa/100))
func (a *TaxAggregator) Taxes() ([]TaxLine, error) {
	scale := a.inv.WorkingScale()
	var taxes []TaxLine
	for _, item := range a.inv.LineItems() {
		if !item.Taxable() {
			continue
		}
		rounded := a.inv.Round(item.Total(scale))
		name := taxNamePtr(item)
		rate := item.TaxRate()

		found := false
		for i := range taxes {
			if taxes[i].sameKey(name, rate) {
				taxes[i].RawTotal = money.Add(taxes[i].RawTotal, rounded)
				found = true
				break
			}
		}
		if !found {
			taxes = append(taxes, TaxLine{Name: name, Rate: rate, RawTotal: rounded})
		}
	}

	for i := range taxes {
		tax, err := a.calculateTax(taxes[i].RawTotal, taxes[i].Rate)
		if err != nil {
			return nil, fmt.Errorf("impuesto %q: %w", taxes[i].NameOrEmpty(), err)
		}
		taxes[i].Total = tax
	}
	return taxes, nil
}

// TaxTotal es la suma exacta de los impuestos de todos los grupos.
func (a *TaxAggregator) TaxTotal() (decimal.Decimal, error) {
	taxes, err := a.Taxes()
	if err != nil {
		return decimal.Zero, err
	}
	return sumTaxes(taxes), nil
}

func (a *TaxAggregator) calculateTax(total decimal.Decimal, rate decimal.NullDecimal) (decimal.Decimal, error) {
	multiplier, err := a.multiplier(rate)
	if err != nil {
		return decimal.Zero, err
	}
	return a.inv.Round(money.Mul(total, multiplier)), nil
}

// multiplier: un grupo con nombre pero sin tarifa se trata como tarifa 0.
func (a *TaxAggregator) multiplier(rate decimal.NullDecimal) (decimal.Decimal, error) {
	if !rate.Valid {
		return decimal.Zero, nil
	}
	scale := a.inv.WorkingScale()
	percent := scale.Percent(rate.Decimal)
	if a.inv.PriceType() == entity.PriceNet {
		return percent, nil
	}
	one := decimal.NewFromInt(1)
	net, err := scale.Div(one, money.Add(one, percent))
	if err != nil {
		return decimal.Zero, err
	}
	return money.Sub(one, net), nil
}

func sumTaxes(taxes []TaxLine) decimal.Decimal {
	total := decimal.Zero
	for _, t := range taxes {
		total = money.Add(total, t.Total)
	}
	return total
}

func taxNamePtr(item entity.LineItem) *string {
	name, ok := item.TaxName()
	if !ok {
		return nil
	}
	return &name
}
