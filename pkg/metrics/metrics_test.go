package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Exporta(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("POST", "/api/sales", 201, 120*time.Millisecond)
	m.SaleRecorded("Efectivo", 150.5)
	m.SaleRecorded("Efectivo", 49.5)
	m.StockOperation("transfer", nil)
	m.StockOperation("transfer", errors.New("x"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 1.0, counter(t, mfs, "http_requests_total", "status", "201"))
	assert.Equal(t, 2.0, counter(t, mfs, "pos_sales_total", "payment_method", "Efectivo"))
	assert.Equal(t, 200.0, counter(t, mfs, "pos_sales_amount_total", "payment_method", "Efectivo"))
	assert.Equal(t, 1.0, counter(t, mfs, "pos_stock_operations_total", "result", "error"))
	assert.Equal(t, 1.0, counter(t, mfs, "pos_stock_operations_total", "result", "ok"))
}

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *Metrics
	assert.Nil(t, New(nil))
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.SaleRecorded("Tarjeta", 1)
		m.StockOperation("reduce", nil)
	})
}

func counter(t *testing.T, mfs []*dto.MetricFamily, name, labelName, labelValue string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == labelName && l.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("métrica %s{%s=%s} no encontrada", name, labelName, labelValue)
	return 0
}
