package loader

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
)

// SettingsSheet hoja opcional con pares clave/valor de la cabecera de la factura.
const SettingsSheet = "invoice"

// Columnas reconocidas en la fila de encabezado de la hoja de líneas.
const (
	colDescription = "description"
	colReference   = "reference"
	colQuantity    = "quantity"
	colUnit        = "unit"
	colUnitPrice   = "unit_price"
	colDiscount    = "discount"
	colTaxRate     = "tax_rate"
	colTaxName     = "tax_name"
)

// LoadXLSX lee las líneas de la primera hoja distinta de "invoice" (fila 1 = encabezados)
// y, si existe, la cabecera desde la hoja "invoice" (columna A = clave, columna B = valor).
// Se lee el valor guardado de cada celda, nunca el texto con formato de número: un
// 1.255 con formato "0.00" llega como "1.255". Las fechas deben ir como texto ISO.
func LoadXLSX(path string) (dto.CalculateInvoiceRequest, error) {
	var in dto.CalculateInvoiceRequest

	f, err := excelize.OpenFile(path)
	if err != nil {
		return in, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return in, fmt.Errorf("%s: el libro no tiene hojas", path)
	}

	itemsSheet := ""
	for _, name := range sheets {
		if strings.EqualFold(name, SettingsSheet) {
			if err := readSettings(f, name, &in); err != nil {
				return in, fmt.Errorf("%s: hoja %q: %w", path, name, err)
			}
			continue
		}
		if itemsSheet == "" {
			itemsSheet = name
		}
	}
	if itemsSheet == "" {
		return in, nil
	}

	rows, err := readRows(f, itemsSheet)
	if err != nil {
		return in, fmt.Errorf("%s: leer hoja %q: %w", path, itemsSheet, err)
	}
	items, err := parseItemRows(rows)
	if err != nil {
		return in, fmt.Errorf("%s: hoja %q: %w", path, itemsSheet, err)
	}
	in.Items = items
	return in, nil
}

func parseItemRows(rows [][]string) ([]dto.LineItemRequest, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if key != "" {
			header[key] = i
		}
	}
	if _, ok := header[colUnitPrice]; !ok {
		return nil, fmt.Errorf("falta la columna %q en el encabezado", colUnitPrice)
	}

	items := make([]dto.LineItemRequest, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		cell := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		item := dto.LineItemRequest{
			Description: cell(colDescription),
			Reference:   cell(colReference),
			Unit:        cell(colUnit),
			UnitPrice:   dto.Amount(cell(colUnitPrice)),
			Quantity:    optionalAmount(cell(colQuantity)),
			Discount:    optionalAmount(cell(colDiscount)),
			TaxRate:     optionalAmount(cell(colTaxRate)),
			TaxName:     cell(colTaxName),
		}
		if item.UnitPrice == "" {
			return nil, fmt.Errorf("fila %d: %s vacío", i+1, colUnitPrice)
		}
		items = append(items, item)
	}
	return items, nil
}

func readSettings(f *excelize.File, sheet string, in *dto.CalculateInvoiceRequest) error {
	rows, err := readRows(f, sheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) < 2 || isRowEmpty(row) {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		switch key {
		case "price_type":
			in.PriceType = value
		case "currency":
			in.Currency = value
		case "precision", "working_scale":
			n, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return fmt.Errorf("fila %d: %s debe ser entero: %q", i+1, key, value)
			}
			v := int32(n)
			if key == "precision" {
				in.Precision = &v
			} else {
				in.WorkingScale = &v
			}
		case "invoice_number":
			in.InvoiceNumber = value
		case "invoice_date":
			in.InvoiceDate = value
		case "due_date":
			in.DueDate = value
		case "customer_number":
			in.CustomerNumber = value
		case "customer_address":
			in.CustomerAddress = append(in.CustomerAddress, value)
		case "commission":
			in.Commission = value
		case "payment_terms":
			in.PaymentTerms = value
		case "extra_info":
			in.ExtraInfo = append(in.ExtraInfo, value)
		case "tax_id":
			// tax_id | etiqueta | valor
			if len(row) < 3 {
				return fmt.Errorf("fila %d: tax_id requiere etiqueta y valor", i+1)
			}
			in.TaxIDs = append(in.TaxIDs, dto.TaxIDRequest{Label: value, Value: strings.TrimSpace(row[2])})
		default:
			return fmt.Errorf("fila %d: clave desconocida %q", i+1, key)
		}
	}
	return nil
}

// excelSignificantDigits dígitos con que Excel guarda y muestra un número.
const excelSignificantDigits = 15

// readRows devuelve el valor almacenado de cada celda. Una celda numérica guarda el
// texto de un float64; si trae más de 15 dígitos significativos (1.2549999999999999)
// se recorta a 15 en decimal, sin pasar por float64. Las celdas de texto no se tocan.
func readRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, err
			}
			if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
				row[c] = trimNumericCell(v)
			}
		}
	}
	return rows, nil
}

func trimNumericCell(v string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	if digits <= excelSignificantDigits {
		return v
	}
	places := excelSignificantDigits - (digits + int(d.Exponent()))
	return d.Round(int32(places)).String()
}

func optionalAmount(s string) *dto.Amount {
	if s == "" {
		return nil
	}
	return dto.AmountPtr(s)
}

func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
