package sales

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// SalesTxRunner ejecuta la venta completa en una sola transacción: stock, movimientos y venta.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Observer recibe las ventas confirmadas (métricas).
type Observer interface {
	SaleRecorded(paymentMethod string, amount float64)
}
