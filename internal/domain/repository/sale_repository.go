package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// PaymentMethodTotal resultado agregado de ventas por método de pago.
type PaymentMethodTotal struct {
	PaymentMethod string
	SaleCount     int
	TotalAmount   decimal.Decimal
	CashAmount    decimal.Decimal
	CardAmount    decimal.Decimal
}

// ProductSalesTotal resultado agregado de piezas vendidas por producto.
type ProductSalesTotal struct {
	ProductID   string
	PieceCode   string
	Description string
	TotalPieces int
	TotalAmount decimal.Decimal
}

// SaleRepository define el puerto de persistencia para ventas. Las ventas no se modifican ni se eliminan.
type SaleRepository interface {
	// Create inserta la venta y sus líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas ordenadas por posición.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// ListByBusiness devuelve ventas sin líneas, más recientes primero.
	ListByBusiness(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
	TotalsByPaymentMethod(ctx context.Context, businessID string, from, to time.Time) ([]PaymentMethodTotal, error)
	TopProducts(ctx context.Context, businessID string, from, to time.Time, limit int) ([]ProductSalesTotal, error)
}
