package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStockRequest body para POST /api/products/:id/transfer.
// expected_version opcional: si no coincide con la versión actual responde CONCURRENCY_CONFLICT.
type TransferStockRequest struct {
	FromLocation    string `json:"from_location" validate:"required,max=100"`
	ToLocation      string `json:"to_location" validate:"required,max=100"`
	Quantity        int    `json:"quantity" validate:"required,min=1,max=1000000000"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// AddLocationRequest body para POST /api/products/:id/locations.
type AddLocationRequest struct {
	Location        string `json:"location" validate:"required,max=100"`
	Quantity        int    `json:"quantity" validate:"required,min=1,max=1000000000"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// ReceiveStockRequest body para POST /api/products/:id/receive (entrada de mercancía).
type ReceiveStockRequest struct {
	Location string          `json:"location" validate:"required,max=100"`
	Quantity int             `json:"quantity" validate:"required,min=1,max=1000000000"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ReduceStockRequest body para POST /api/products/:id/reduce (merma o salida manual).
type ReduceStockRequest struct {
	Quantity        int    `json:"quantity" validate:"required,min=1,max=1000000000"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// MovementResponse movimiento del ledger de inventario.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	Location      string          `json:"location"`
	Type          string          `json:"type"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO producto bajo punto de reorden con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	Priority           int             `json:"priority"`
	ProductID          string          `json:"product_id"`
	ProductCode        string          `json:"product_code"`
	Name               string          `json:"name"`
	CurrentStock       int             `json:"current_stock"`
	ReorderPoint       int             `json:"reorder_point"`
	IdealStock         int             `json:"ideal_stock"`
	SuggestedBoxes     int             `json:"suggested_boxes"`
	SuggestedOrderQty  int             `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	UnitsSoldLast30    int             `json:"units_sold_last_30_days"`
}

// ReplenishmentResponse lista de reposición del negocio.
type ReplenishmentResponse struct {
	Location           string                       `json:"location,omitempty"`
	GeneratedAt        time.Time                    `json:"generated_at"`
	Items              []ReplenishmentSuggestionDTO `json:"items"`
	EstimatedTotalCost decimal.Decimal              `json:"estimated_total_cost"`
}
