// Package metrics registra los contadores Prometheus de la API (HTTP, ventas y ledger de stock).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los collectors. Todos los métodos toleran receptor nil (métricas desactivadas).
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sales        *prometheus.CounterVec
	salesAmount  *prometheus.CounterVec
	ledgerOps    *prometheus.CounterVec
}

// New registra las métricas en reg. Con reg nil devuelve nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_total",
			Help: "Ventas registradas por método de pago.",
		}, []string{"payment_method"}),
		salesAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Importe vendido por método de pago.",
		}, []string{"payment_method"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_stock_operations_total",
			Help: "Operaciones de stock por tipo y resultado.",
		}, []string{"operation", "result"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.sales, m.salesAmount, m.ledgerOps)
	return m
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route = label(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SaleRecorded suma una venta confirmada.
func (m *Metrics) SaleRecorded(paymentMethod string, amount float64) {
	if m == nil {
		return
	}
	m.sales.WithLabelValues(label(paymentMethod)).Inc()
	m.salesAmount.WithLabelValues(label(paymentMethod)).Add(amount)
}

// StockOperation cuenta una operación de ledger; err nil se registra como "ok".
func (m *Metrics) StockOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ledgerOps.WithLabelValues(label(operation), result).Inc()
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
