package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/retail-pos-api/internal/domain/inventory"
)

func TestCostCalculator(t *testing.T) {
	d := decimal.NewFromInt
	tests := []struct {
		name                             string
		stock, cost, entrada, costoEntra decimal.Decimal
		want                             string
	}{
		{"promedio ponderado", d(10), d(50), d(10), d(70), "60"},
		{"sin stock previo", d(0), d(0), d(5), d(33), "33"},
		{"redondeo a 4 decimales", d(1), d(10), d(2), d(11), "10.6667"},
		{"sin cantidades", d(0), d(10), d(0), d(10), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.CostCalculator(tt.stock, tt.cost, tt.entrada, tt.costoEntra)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
