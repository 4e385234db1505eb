package dto

// CalculateInvoiceRequest body para POST /api/invoices/calculate y archivos del CLI.
// Los campos vacíos toman los valores por defecto de la configuración (BILLING_*).
type CalculateInvoiceRequest struct {
	PriceType    string `json:"price_type,omitempty" yaml:"price_type"` // net | gross
	Currency     string `json:"currency,omitempty" yaml:"currency"`     // ISO 4217
	Precision    *int32 `json:"precision,omitempty" yaml:"precision"`   // decimales de la moneda; por defecto ISO 4217
	WorkingScale *int32 `json:"working_scale,omitempty" yaml:"working_scale"`

	InvoiceNumber   string         `json:"invoice_number,omitempty" yaml:"invoice_number"`
	InvoiceDate     string         `json:"invoice_date,omitempty" yaml:"invoice_date"` // YYYY-MM-DD
	DueDate         string         `json:"due_date,omitempty" yaml:"due_date"`         // YYYY-MM-DD
	CustomerNumber  string         `json:"customer_number,omitempty" yaml:"customer_number"`
	CustomerAddress []string       `json:"customer_address,omitempty" yaml:"customer_address"`
	Commission      string         `json:"commission,omitempty" yaml:"commission"`
	PaymentTerms    string         `json:"payment_terms,omitempty" yaml:"payment_terms"`
	TaxIDs          []TaxIDRequest `json:"tax_ids,omitempty" yaml:"tax_ids"`
	ExtraInfo       []string       `json:"extra_info,omitempty" yaml:"extra_info"`

	Items []LineItemRequest `json:"items" yaml:"items"`
}

// TaxIDRequest identificación tributaria (ej. "VAT ID" / "DE999999999").
type TaxIDRequest struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// LineItemRequest línea de factura. Quantity vacío = 1; Discount y TaxRate en porcentaje.
type LineItemRequest struct {
	Description string  `json:"description,omitempty" yaml:"description"`
	Reference   string  `json:"reference,omitempty" yaml:"reference"`
	Unit        string  `json:"unit,omitempty" yaml:"unit"`
	Quantity    *Amount `json:"quantity,omitempty" yaml:"quantity"`
	UnitPrice   Amount  `json:"unit_price" yaml:"unit_price"`
	Discount    *Amount `json:"discount,omitempty" yaml:"discount"`
	TaxRate     *Amount `json:"tax_rate,omitempty" yaml:"tax_rate"`
	TaxName     string  `json:"tax_name,omitempty" yaml:"tax_name"`
}

// InvoiceTotalsResponse resultado del cálculo. Los montos van como texto para no pasar por float.
type InvoiceTotalsResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	Precision     int32              `json:"precision"`
	PriceType     string             `json:"price_type"`
	NetTotal      string             `json:"net_total"`
	GrossTotal    string             `json:"gross_total"`
	TaxTotal      string             `json:"tax_total"`
	Taxes         []TaxResponse      `json:"taxes"`
	Items         []LineItemResponse `json:"items"`
}

// TaxResponse grupo de impuestos (nombre, tarifa). Name y Rate son null cuando no se definieron.
type TaxResponse struct {
	Name  *string `json:"name"`
	Rate  *string `json:"rate"`
	Base  string  `json:"base"` // suma de totales de línea redondeados del grupo
	Total string  `json:"total"`
}

// LineItemResponse línea con su total exacto y redondeado.
type LineItemResponse struct {
	Description  string  `json:"description,omitempty"`
	Reference    string  `json:"reference,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	Quantity     string  `json:"quantity"`
	UnitPrice    string  `json:"unit_price"`
	Discount     *string `json:"discount,omitempty"`
	TaxRate      *string `json:"tax_rate,omitempty"`
	TaxName      *string `json:"tax_name,omitempty"`
	Total        string  `json:"total"`
	RoundedTotal string  `json:"rounded_total"`
}

// RoundRequest body para POST /api/round.
type RoundRequest struct {
	Value     Amount `json:"value"`
	Precision int32  `json:"precision"`
}

// RoundResponse valor redondeado mitad alejándose de cero.
type RoundResponse struct {
	Value     string `json:"value"`
	Precision int32  `json:"precision"`
}
