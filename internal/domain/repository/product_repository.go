package repository

import (
	"context"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos de un negocio.
// Search se compara contra nombre y códigos sin distinguir mayúsculas ni acentos.
type ProductFilter struct {
	Search string
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos que devuelven un producto retornan (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE); solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByBusinessAndCode(ctx context.Context, businessID, productCode string) (*entity.Product, error)
	// Update modifica atributos, precios y costo. No toca stock_locations ni version.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste stock_locations y cost si version = expectedVersion, e incrementa version.
	// Si ninguna fila coincide devuelve domain.ErrConcurrencyConflict.
	UpdateStock(ctx context.Context, product *entity.Product, expectedVersion int64) error
	ListByBusiness(ctx context.Context, businessID string, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
