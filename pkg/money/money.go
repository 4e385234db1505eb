// Package money agrupa la aritmética decimal exacta usada en facturación.
//
// Todas las operaciones trabajan sobre decimal.Decimal. La única operación que
// pierde dígitos es la división, que exige una WorkingScale explícita; el
// paquete nunca consulta decimal.DivisionPrecision.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultWorkingScale es la escala que usan los builders cuando el llamador no indica otra.
const DefaultWorkingScale WorkingScale = 10

// Límites de entrada para precisión, escala y literales recibidos de clientes.
const (
	MaxWorkingScale WorkingScale = 64
	MaxPrecision    int32        = 18
	// MaxExponent acota el exponente de un literal: "1e64" y "1e-64" se aceptan, "1e65" no.
	MaxExponent = 64
	// maxLiteralLen acota el texto antes de convertirlo.
	maxLiteralLen = 128
)

// ValidPrecision indica si precision está entre 0 y MaxPrecision.
func ValidPrecision(precision int32) bool { return precision >= 0 && precision <= MaxPrecision }

var hundred = decimal.NewFromInt(100)

// WorkingScale es la cantidad de dígitos decimales conservados en pasos intermedios.
type WorkingScale int32

// Valid indica si la escala está entre 0 y MaxWorkingScale.
func (s WorkingScale) Valid() bool { return s >= 0 && s <= MaxWorkingScale }

// Div divide a entre b truncando el cociente (hacia cero) a la escala.
func (s WorkingScale) Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	q, _ := a.QuoRem(b, int32(s))
	return q, nil
}

// Percent devuelve p/100 a la escala de trabajo.
func (s WorkingScale) Percent(p decimal.Decimal) decimal.Decimal {
	q, _ := p.QuoRem(hundred, int32(s))
	return q
}

// Add suma exacta.
func Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }

// Sub resta exacta.
func Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }

// Mul multiplicación exacta.
func Mul(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) }

// Cmp devuelve -1, 0 o 1.
func Cmp(a, b decimal.Decimal) int { return a.Cmp(b) }

// Sum suma exacta de todos los valores; sin valores devuelve cero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Round redondea mitad alejándose de cero a precision (>= 0) decimales:
// se suma (o resta, si v < 0) 5×10^-(precision+1) y se trunca.
// Los valores enteros se devuelven sin cambios.
//
//	Round(1.255, 2) = 1.26
//	Round(-1.255, 2) = -1.26
func Round(v decimal.Decimal, precision int32) decimal.Decimal {
	if v.IsInteger() {
		return v
	}
	half := decimal.New(5, -(precision + 1))
	if v.Sign() < 0 {
		return v.Sub(half).Truncate(precision)
	}
	return v.Add(half).Truncate(precision)
}

// FromInt convierte un entero sin pérdida.
func FromInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Parse convierte texto decimal ("12.40", "-3", "1e3") en decimal.Decimal.
// Rechaza textos de más de 128 caracteres y exponentes fuera de ±MaxExponent.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: valor vacío", ErrInvalidDecimal)
	}
	if len(s) > maxLiteralLen {
		return decimal.Zero, fmt.Errorf("%w: más de %d caracteres", ErrInvalidDecimal, maxLiteralLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero, fmt.Errorf("%w: %q fuera de rango (exponente %d)", ErrInvalidDecimal, s, exp)
	}
	return d, nil
}

// ParseOptional convierte un valor opcional; nil o vacío produce un NullDecimal inválido.
func ParseOptional(s *string) (decimal.NullDecimal, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := Parse(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// MustParse es Parse para constantes en código y tests; entra en pánico si el texto es inválido.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
