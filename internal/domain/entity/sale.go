package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en punto de venta.
const (
	PaymentEfectivo = "Efectivo"
	PaymentTarjeta  = "Tarjeta"
	PaymentMixto    = "Mixto"
)

// ValidPaymentMethod indica si el método de pago es uno de los soportados.
func ValidPaymentMethod(m string) bool {
	return m == PaymentEfectivo || m == PaymentTarjeta || m == PaymentMixto
}

// PaymentDetails desglose del pago recibido.
type PaymentDetails struct {
	CashAmount decimal.Decimal
	CardAmount decimal.Decimal
	Reference  string
}

// Sale es una venta registrada en punto de venta. Inmutable una vez persistida.
// TotalAmount = Σ AppliedPrice * TotalPieces.
type Sale struct {
	ID            string
	BusinessID    string
	UserID        string
	PaymentMethod string
	Payment       PaymentDetails
	TotalAmount   decimal.Decimal
	TotalPieces   int
	Change        decimal.Decimal // cambio entregado (solo efectivo)
	Date          time.Time
	Items         []SaleItem
	CreatedAt     time.Time
}

// SaleItem línea de la venta.
type SaleItem struct {
	ID           string
	SaleID       string
	Position     int
	ProductID    string
	PieceCode    string // código de producto al momento de la venta
	Description  string
	TotalPieces  int
	AppliedPrice decimal.Decimal
	PriceTier    string
	Subtotal     decimal.Decimal
}
