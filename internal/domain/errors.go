package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidPriceType    = errors.New("tipo de precio inválido: se espera neto o bruto")
	ErrInvalidPrecision    = errors.New("precisión de moneda inválida: debe estar entre 0 y 18")
	ErrInvalidWorkingScale = errors.New("escala de trabajo inválida: debe estar entre 0 y 64")
	ErrInvalidCurrency     = errors.New("código de moneda ISO 4217 inválido")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInvalidRole         = errors.New("rol inválido: se espera billing o admin")
)
