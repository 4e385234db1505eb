package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/invoice-engine/pkg/money"
)

// Amount es un número decimal recibido como texto.
// En JSON acepta "12.40" o 12; en YAML acepta '12.40' o 12. Los literales
// con fracción sin comillas se rechazan con money.ErrFloatInput.
type Amount string

// Decimal convierte el texto validado en decimal exacto.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return money.Parse(string(a))
}

// UnmarshalJSON implementa json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	d, err := money.ParseJSONNumber(json.RawMessage(b))
	if err != nil {
		return err
	}
	*a = Amount(d.String())
	return nil
}

// UnmarshalYAML implementa yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: línea %d, se esperaba un valor escalar", money.ErrInvalidDecimal, node.Line)
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch node.ShortTag() {
	case "!!str":
		d, err = money.Parse(node.Value)
	case "!!int":
		d, err = money.ParseIntegerLiteral(node.Value)
	case "!!float":
		err = fmt.Errorf("%w: %s", money.ErrFloatInput, node.Value)
	default:
		err = fmt.Errorf("%w: %s", money.ErrInvalidDecimal, node.Value)
	}
	if err != nil {
		return fmt.Errorf("línea %d: %w", node.Line, err)
	}
	*a = Amount(d.String())
	return nil
}

// AmountPtr ayuda a construir requests en código.
func AmountPtr(s string) *Amount {
	a := Amount(s)
	return &a
}
