package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-engine/pkg/money"
)

// LineItem representa una línea de factura. Es un valor inmutable: los métodos
// With* devuelven una copia modificada, de modo que una factura ya construida
// nunca observa cambios hechos por el llamador.
type LineItem struct {
	description string
	reference   string
	unit        string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	discount    decimal.NullDecimal // porcentaje, ej. 25 para 25%
	taxRate     decimal.NullDecimal // porcentaje, ej. 19 para 19%
	taxName     *string
}

// NewLineItem crea una línea con cantidad 1, sin descuento ni impuesto.
func NewLineItem(unitPrice decimal.Decimal) LineItem {
	return LineItem{
		quantity:  decimal.NewFromInt(1),
		unitPrice: unitPrice,
	}
}

// WithDescription fija el texto descriptivo.
func (li LineItem) WithDescription(s string) LineItem { li.description = s; return li }

// WithReference fija la referencia o SKU.
func (li LineItem) WithReference(s string) LineItem { li.reference = s; return li }

// WithUnit fija la unidad de medida (ej. "h", "kg").
func (li LineItem) WithUnit(s string) LineItem { li.unit = s; return li }

// WithQuantity fija la cantidad; puede ser fraccionaria o negativa.
func (li LineItem) WithQuantity(q decimal.Decimal) LineItem { li.quantity = q; return li }

// WithUnitPrice fija el precio unitario, neto o bruto según la factura.
func (li LineItem) WithUnitPrice(p decimal.Decimal) LineItem { li.unitPrice = p; return li }

// WithDiscount fija el descuento en porcentaje.
func (li LineItem) WithDiscount(percent decimal.Decimal) LineItem {
	li.discount = decimal.NewNullDecimal(percent)
	return li
}

// WithoutDiscount quita el descuento.
func (li LineItem) WithoutDiscount() LineItem {
	li.discount = decimal.NullDecimal{}
	return li
}

// WithTaxRate fija la tarifa de impuesto en porcentaje.
func (li LineItem) WithTaxRate(percent decimal.Decimal) LineItem {
	li.taxRate = decimal.NewNullDecimal(percent)
	return li
}

// WithTaxName fija el nombre del impuesto; "" lo elimina.
func (li LineItem) WithTaxName(name string) LineItem {
	if name == "" {
		li.taxName = nil
		return li
	}
	li.taxName = &name
	return li
}

// WithoutTax quita nombre y tarifa: la línea queda fuera de todo grupo de impuestos.
func (li LineItem) WithoutTax() LineItem {
	li.taxName = nil
	li.taxRate = decimal.NullDecimal{}
	return li
}

// Description texto descriptivo.
func (li LineItem) Description() string { return li.description }

// Reference referencia o SKU.
func (li LineItem) Reference() string { return li.reference }

// Unit unidad de medida.
func (li LineItem) Unit() string { return li.unit }

// Quantity cantidad; 1 si no se indicó.
func (li LineItem) Quantity() decimal.Decimal { return li.quantity }

// UnitPrice precio unitario.
func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }

// Discount porcentaje de descuento; inválido si no hay.
func (li LineItem) Discount() decimal.NullDecimal { return li.discount }

// TaxRate tarifa en porcentaje; inválida si no hay.
func (li LineItem) TaxRate() decimal.NullDecimal { return li.taxRate }

// TaxName devuelve el nombre del impuesto y si está definido.
func (li LineItem) TaxName() (string, bool) {
	if li.taxName == nil {
		return "", false
	}
	return *li.taxName, true
}

// Taxable es falso solo cuando no hay ni nombre ni tarifa de impuesto.
func (li LineItem) Taxable() bool {
	return li.taxName != nil || li.taxRate.Valid
}

// Total = precio unitario × cantidad × (1 − descuento/100), sin redondear.
// Se recalcula en cada llamada; sin descuento el multiplicador es exactamente 1.
func (li LineItem) Total(scale money.WorkingScale) decimal.Decimal {
	total := money.Mul(li.unitPrice, li.quantity)
	if li.discount.Valid {
		multiplier := money.Sub(decimal.NewFromInt(1), scale.Percent(li.discount.Decimal))
		total = money.Mul(total, multiplier)
	}
	return total
}
