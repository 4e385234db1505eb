package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/pkg/money"
)

// DefaultPrecision se usa cuando no se indica moneda ni precisión.
const DefaultPrecision int32 = 2

// TaxID identificación tributaria del emisor (ej. {"VAT ID", "DE999999999"}).
type TaxID struct {
	Label string
	Value string
}

// Invoice representa la cabecera de una factura y sus líneas.
// Se construye con InvoiceBuilder y no cambia después; los cálculos
// (impuestos y totales) se derivan en cada consulta desde sus líneas.
type Invoice struct {
	priceType    PriceType
	currency     string
	precision    int32
	workingScale money.WorkingScale

	customerAddress []string
	customerNumber  string
	invoiceNumber   string
	invoiceDate     time.Time
	dueDate         time.Time
	commission      string
	taxIDs          []TaxID
	paymentTerms    string
	extraInfo       []string

	lineItems []LineItem
}

// PriceType indica si los precios de las líneas son netos o brutos.
func (inv *Invoice) PriceType() PriceType { return inv.priceType }

// Currency código ISO 4217; vacío si no se indicó moneda.
func (inv *Invoice) Currency() string { return inv.currency }

// Precision decimales con que se redondean impuestos y totales.
func (inv *Invoice) Precision() int32 { return inv.precision }

// WorkingScale decimales conservados en las divisiones intermedias.
func (inv *Invoice) WorkingScale() money.WorkingScale { return inv.workingScale }

// CustomerNumber número de cliente.
func (inv *Invoice) CustomerNumber() string { return inv.customerNumber }

// InvoiceNumber número de factura.
func (inv *Invoice) InvoiceNumber() string { return inv.invoiceNumber }

// InvoiceDate fecha de emisión; cero si no se indicó.
func (inv *Invoice) InvoiceDate() time.Time { return inv.invoiceDate }

// DueDate fecha de vencimiento; cero si no se indicó.
func (inv *Invoice) DueDate() time.Time { return inv.dueDate }

// Commission referencia de comisión o pedido.
func (inv *Invoice) Commission() string { return inv.commission }

// PaymentTerms condiciones de pago.
func (inv *Invoice) PaymentTerms() string { return inv.paymentTerms }

// CustomerAddress devuelve una copia de las líneas de dirección.
func (inv *Invoice) CustomerAddress() []string { return append([]string(nil), inv.customerAddress...) }

// TaxIDs devuelve una copia de los identificadores fiscales.
func (inv *Invoice) TaxIDs() []TaxID { return append([]TaxID(nil), inv.taxIDs...) }

// ExtraInfo devuelve una copia de las líneas de texto libre.
func (inv *Invoice) ExtraInfo() []string { return append([]string(nil), inv.extraInfo...) }

// LineItems devuelve una copia de las líneas en orden de inserción.
func (inv *Invoice) LineItems() []LineItem {
	return append([]LineItem(nil), inv.lineItems...)
}

// Round redondea a la precisión de la moneda de la factura.
func (inv *Invoice) Round(v decimal.Decimal) decimal.Decimal {
	return money.Round(v, inv.precision)
}

// ToBuilder devuelve un builder con una copia de la factura, para derivar otra.
func (inv *Invoice) ToBuilder() *InvoiceBuilder {
	cp := *inv
	cp.customerAddress = inv.CustomerAddress()
	cp.taxIDs = inv.TaxIDs()
	cp.extraInfo = inv.ExtraInfo()
	cp.lineItems = inv.LineItems()
	return &InvoiceBuilder{inv: cp}
}

// InvoiceBuilder acumula la configuración de una factura y la valida en Build.
// El primer error de un setter validado se conserva y lo devuelve Build.
type InvoiceBuilder struct {
	inv Invoice
	err error
}

// NewInvoiceBuilder parte de precios netos, precisión 2 y DefaultWorkingScale.
func NewInvoiceBuilder() *InvoiceBuilder {
	return &InvoiceBuilder{inv: Invoice{
		priceType:    PriceNet,
		precision:    DefaultPrecision,
		workingScale: money.DefaultWorkingScale,
	}}
}

func (b *InvoiceBuilder) fail(err error) *InvoiceBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetPriceType fija la base de los precios; rechaza valores distintos de neto/bruto.
func (b *InvoiceBuilder) SetPriceType(t PriceType) *InvoiceBuilder {
	if !t.Valid() {
		return b.fail(fmt.Errorf("%w: %d", domain.ErrInvalidPriceType, int(t)))
	}
	b.inv.priceType = t
	return b
}

// SetCurrency fija código y precisión explícita (ej. "JPY", 0).
func (b *InvoiceBuilder) SetCurrency(code string, precision int32) *InvoiceBuilder {
	unit, err := parseCurrency(code)
	if err != nil {
		return b.fail(err)
	}
	b.inv.currency = unit.String()
	return b.SetPrecision(precision)
}

// SetCurrencyCode fija la moneda y toma la precisión de sus unidades menores ISO 4217.
func (b *InvoiceBuilder) SetCurrencyCode(code string) *InvoiceBuilder {
	unit, err := parseCurrency(code)
	if err != nil {
		return b.fail(err)
	}
	b.inv.currency = unit.String()
	return b.SetPrecision(CurrencyPrecision(unit))
}

// SetPrecision fija los decimales de redondeo (0 a money.MaxPrecision).
func (b *InvoiceBuilder) SetPrecision(precision int32) *InvoiceBuilder {
	if !money.ValidPrecision(precision) {
		return b.fail(fmt.Errorf("%w: %d", domain.ErrInvalidPrecision, precision))
	}
	b.inv.precision = precision
	return b
}

// SetWorkingScale fija los decimales de los pasos intermedios (0 a money.MaxWorkingScale).
func (b *InvoiceBuilder) SetWorkingScale(scale money.WorkingScale) *InvoiceBuilder {
	if !scale.Valid() {
		return b.fail(fmt.Errorf("%w: %d", domain.ErrInvalidWorkingScale, scale))
	}
	b.inv.workingScale = scale
	return b
}

// SetCustomerAddress reemplaza las líneas de dirección del cliente.
func (b *InvoiceBuilder) SetCustomerAddress(lines ...string) *InvoiceBuilder {
	b.inv.customerAddress = append([]string(nil), lines...)
	return b
}

// SetCustomerNumber fija el número de cliente.
func (b *InvoiceBuilder) SetCustomerNumber(s string) *InvoiceBuilder {
	b.inv.customerNumber = s
	return b
}

// SetInvoiceNumber fija el número de factura.
func (b *InvoiceBuilder) SetInvoiceNumber(s string) *InvoiceBuilder {
	b.inv.invoiceNumber = s
	return b
}

// SetInvoiceDate fija la fecha de emisión.
func (b *InvoiceBuilder) SetInvoiceDate(t time.Time) *InvoiceBuilder { b.inv.invoiceDate = t; return b }

// SetDueDate fija la fecha de vencimiento.
func (b *InvoiceBuilder) SetDueDate(t time.Time) *InvoiceBuilder { b.inv.dueDate = t; return b }

// SetCommission fija la referencia de comisión o pedido.
func (b *InvoiceBuilder) SetCommission(s string) *InvoiceBuilder { b.inv.commission = s; return b }

// SetPaymentTerms fija el texto de condiciones de pago.
func (b *InvoiceBuilder) SetPaymentTerms(s string) *InvoiceBuilder { b.inv.paymentTerms = s; return b }

// AddTaxID agrega un identificador fiscal del emisor (ej. "Ust-ID", "DE999999999").
func (b *InvoiceBuilder) AddTaxID(label, value string) *InvoiceBuilder {
	b.inv.taxIDs = append(b.inv.taxIDs, TaxID{Label: label, Value: value})
	return b
}

// ClearTaxIDs quita todos los identificadores fiscales.
func (b *InvoiceBuilder) ClearTaxIDs() *InvoiceBuilder { b.inv.taxIDs = nil; return b }

// AddExtraInfo agrega una línea de texto libre.
func (b *InvoiceBuilder) AddExtraInfo(s string) *InvoiceBuilder {
	b.inv.extraInfo = append(b.inv.extraInfo, s)
	return b
}

// ClearExtraInfo quita las líneas de texto libre.
func (b *InvoiceBuilder) ClearExtraInfo() *InvoiceBuilder { b.inv.extraInfo = nil; return b }

// AddLineItem agrega una copia de la línea al final.
func (b *InvoiceBuilder) AddLineItem(items ...LineItem) *InvoiceBuilder {
	b.inv.lineItems = append(b.inv.lineItems, items...)
	return b
}

// ReplaceLineItem sustituye la línea en la posición i (base 0).
func (b *InvoiceBuilder) ReplaceLineItem(i int, item LineItem) *InvoiceBuilder {
	if i < 0 || i >= len(b.inv.lineItems) {
		return b.fail(fmt.Errorf("%w: línea %d fuera de rango", domain.ErrInvalidInput, i))
	}
	b.inv.lineItems[i] = item
	return b
}

// ClearLineItems elimina todas las líneas. No hay borrado individual.
func (b *InvoiceBuilder) ClearLineItems() *InvoiceBuilder { b.inv.lineItems = nil; return b }

// Build valida y devuelve una factura independiente del builder.
func (b *InvoiceBuilder) Build() (*Invoice, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.inv.priceType.Valid() {
		return nil, domain.ErrInvalidPriceType
	}
	if !money.ValidPrecision(b.inv.precision) {
		return nil, domain.ErrInvalidPrecision
	}
	if !b.inv.workingScale.Valid() {
		return nil, domain.ErrInvalidWorkingScale
	}
	inv := b.inv
	inv.customerAddress = append([]string(nil), b.inv.customerAddress...)
	inv.taxIDs = append([]TaxID(nil), b.inv.taxIDs...)
	inv.extraInfo = append([]string(nil), b.inv.extraInfo...)
	inv.lineItems = append([]LineItem(nil), b.inv.lineItems...)
	return &inv, nil
}

// CurrencyPrecision devuelve los decimales estándar de la moneda (EUR 2, JPY 0, BHD 3).
func CurrencyPrecision(unit currency.Unit) int32 {
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// ParseCurrency valida un código ISO 4217 y devuelve su código normalizado y precisión estándar.
func ParseCurrency(code string) (string, int32, error) {
	unit, err := parseCurrency(code)
	if err != nil {
		return "", 0, err
	}
	return unit.String(), CurrencyPrecision(unit), nil
}

func parseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, code)
	}
	return unit, nil
}
