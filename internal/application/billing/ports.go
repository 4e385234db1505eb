package billing

import "time"

// CalculationRecorder registra el resultado de cada cálculo (métricas).
// Lo implementa infrastructure/metrics; nil desactiva el registro.
type CalculationRecorder interface {
	RecordCalculation(priceType string, items int, elapsed time.Duration, err error)
}
