package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del carrito. unit_price opcional fija manualmente uno de los precios del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,min=1,max=1000000000"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// PaymentRequest desglose del pago. En Efectivo cash_amount por defecto es el total.
type PaymentRequest struct {
	CashAmount *decimal.Decimal `json:"cash_amount,omitempty"`
	CardAmount *decimal.Decimal `json:"card_amount,omitempty"`
	Reference  string           `json:"reference,omitempty" validate:"omitempty,max=100"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=Efectivo Tarjeta Mixto"`
	Payment       PaymentRequest    `json:"payment"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuoteRequest body para POST /api/sales/quote.
type QuoteRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuoteLineResponse línea cotizada.
type QuoteLineResponse struct {
	ProductID   string          `json:"product_id"`
	PieceCode   string          `json:"piece_code"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PriceTier   string          `json:"price_tier"`
	PriceLabel  string          `json:"price_label"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Available   int             `json:"available"`
}

// QuoteResponse carrito cotizado sin afectar stock.
type QuoteResponse struct {
	Items       []QuoteLineResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	TotalPieces int                 `json:"total_pieces"`
}

// SaleItemResponse línea de una venta registrada.
type SaleItemResponse struct {
	ProductID    string          `json:"product_id"`
	PieceCode    string          `json:"piece_code"`
	Description  string          `json:"description"`
	TotalPieces  int             `json:"total_pieces"`
	AppliedPrice decimal.Decimal `json:"applied_price"`
	PriceTier    string          `json:"price_tier"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	CashAmount decimal.Decimal `json:"cash_amount"`
	CardAmount decimal.Decimal `json:"card_amount"`
	Reference  string          `json:"reference,omitempty"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	BusinessID    string             `json:"business_id"`
	UserID        string             `json:"user_id"`
	PaymentMethod string             `json:"payment_method"`
	Payment       PaymentResponse    `json:"payment"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalPieces   int                `json:"total_pieces"`
	Change        decimal.Decimal    `json:"change"`
	Date          time.Time          `json:"date"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PaymentMethodSummary totales por método de pago.
type PaymentMethodSummary struct {
	PaymentMethod string          `json:"payment_method"`
	SaleCount     int             `json:"sale_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CashAmount    decimal.Decimal `json:"cash_amount"`
	CardAmount    decimal.Decimal `json:"card_amount"`
}

// TopProductSummary producto más vendido en el período.
type TopProductSummary struct {
	ProductID   string          `json:"product_id"`
	PieceCode   string          `json:"piece_code"`
	Description string          `json:"description"`
	TotalPieces int             `json:"total_pieces"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SalesSummaryResponse corte de ventas del período.
type SalesSummaryResponse struct {
	From            time.Time              `json:"from"`
	To              time.Time              `json:"to"`
	SaleCount       int                    `json:"sale_count"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	ByPaymentMethod []PaymentMethodSummary `json:"by_payment_method"`
	TopProducts     []TopProductSummary    `json:"top_products"`
}
