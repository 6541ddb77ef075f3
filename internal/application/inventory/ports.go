package inventory

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de las operaciones de ledger: stock, versión y movimientos se confirman juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Observer recibe el resultado de cada operación de stock (métricas).
type Observer interface {
	StockOperation(operation string, err error)
}
