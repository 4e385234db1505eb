package entity

import (
	"strings"

	"github.com/jhoicas/invoice-engine/internal/domain"
)

// PriceType indica en qué base se expresan los precios de las líneas.
type PriceType int

// Tipos de precio.
const (
	// PriceNet: precios sin impuesto; el impuesto se calcula "hacia adelante" y se suma.
	PriceNet PriceType = 1
	// PriceGross: precios con impuesto incluido; el impuesto se extrae "hacia atrás".
	PriceGross PriceType = 2
)

// Valid indica si el valor es PriceNet o PriceGross.
func (p PriceType) Valid() bool {
	return p == PriceNet || p == PriceGross
}

func (p PriceType) String() string {
	switch p {
	case PriceNet:
		return "net"
	case PriceGross:
		return "gross"
	default:
		return "invalid"
	}
}

// ParsePriceType acepta "net"/"neto" y "gross"/"bruto" (sin distinguir mayúsculas).
func ParsePriceType(s string) (PriceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "net", "neto":
		return PriceNet, nil
	case "gross", "bruto":
		return PriceGross, nil
	}
	return 0, domain.ErrInvalidPriceType
}
