package money

import (
	"errors"
	"fmt"
)

// Errores de aritmética y de conversión en la frontera.
var (
	ErrDivisionByZero = errors.New("división por cero")
	ErrInvalidDecimal = errors.New("decimal inválido")
	// ErrFloatInput se usa cuando el valor llegó como literal de punto flotante
	// (JSON/YAML sin comillas). Envuelve ErrInvalidDecimal.
	ErrFloatInput = fmt.Errorf("%w: literal de punto flotante no permitido, enviar como texto", ErrInvalidDecimal)
)
