package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	// PriceTypeInvalid agrupa cualquier etiqueta de tipo de precio desconocida.
	PriceTypeInvalid = "invalid"
)

// Recorder publica métricas de los cálculos de factura en un registro propio.
// Implementa billing.CalculationRecorder.
type Recorder struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	lineItems    prometheus.Histogram
	duration     prometheus.Histogram
}

// NewRecorder crea el registro con las métricas de facturación y las del proceso Go.
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_calculations_total",
			Help:      "Cálculos de factura por tipo de precio y resultado.",
		}, []string{"price_type", "outcome"}),
		lineItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_line_items",
			Help:      "Cantidad de líneas por factura calculada.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_calculation_duration_seconds",
			Help:      "Duración de cada cálculo de factura.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	reg.MustRegister(
		r.calculations,
		r.lineItems,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordCalculation registra un cálculo. priceType vacío se publica como "default";
// cualquier valor distinto de net o gross, como "invalid".
func (r *Recorder) RecordCalculation(priceType string, items int, elapsed time.Duration, err error) {
	switch priceType {
	case "":
		priceType = "default"
	case "net", "gross":
	default:
		priceType = PriceTypeInvalid
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.calculations.WithLabelValues(priceType, outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
	if err == nil {
		r.lineItems.Observe(float64(items))
	}
}

// Registry expone el registro para tests o para montar otros collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler sirve el registro en formato de exposición Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
