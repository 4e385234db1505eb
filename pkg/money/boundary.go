package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseJSONNumber acepta un decimal entre comillas o un literal entero sin comillas.
// Los literales sin comillas con fracción o exponente se rechazan con ErrFloatInput:
// son la forma en que un codificador de float64 emite los números.
func ParseJSONNumber(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fmt.Errorf("%w: valor vacío", ErrInvalidDecimal)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidDecimal, raw)
		}
		return Parse(s)
	}
	return ParseIntegerLiteral(string(raw))
}

// ParseIntegerLiteral acepta solo enteros ("12", "-3"); cualquier otro número se trata como float.
func ParseIntegerLiteral(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, ".eE") {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFloatInput, s)
	}
	return Parse(s)
}
