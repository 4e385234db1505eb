package metrics_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-engine/internal/application/billing"
	"github.com/jhoicas/invoice-engine/internal/infrastructure/metrics"
)

var _ billing.CalculationRecorder = (*metrics.Recorder)(nil)

func TestRecorder_CuentaPorResultado(t *testing.T) {
	r := metrics.NewRecorder("test")

	r.RecordCalculation("net", 2, time.Millisecond, nil)
	r.RecordCalculation("net", 3, time.Millisecond, nil)
	r.RecordCalculation("gross", 1, time.Millisecond, errors.New("boom"))
	r.RecordCalculation("", 0, time.Millisecond, errors.New("boom"))

	count, err := testutil.GatherAndCount(r.Registry(), "test_invoice_calculations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "una serie por combinación price_type/outcome")

	count, err = testutil.GatherAndCount(r.Registry(), "test_invoice_line_items")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_EtiquetasDesconocidasSeAgrupan(t *testing.T) {
	r := metrics.NewRecorder("test")
	for i := 0; i < 100; i++ {
		r.RecordCalculation(fmt.Sprintf("junk-%d", i), 1, time.Millisecond, errors.New("boom"))
	}

	count, err := testutil.GatherAndCount(r.Registry(), "test_invoice_calculations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_invoice_calculations_total{outcome="error",price_type="invalid"} 100`)
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder("test")
	r.RecordCalculation("gross", 4, 2*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_invoice_calculations_total{outcome="ok",price_type="gross"} 1`)
	assert.Contains(t, string(body), "test_invoice_line_items_count 1")
	assert.Contains(t, string(body), "go_goroutines")
}
