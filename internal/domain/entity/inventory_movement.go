package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeSALE        = "SALE"         // salida por venta
	MovementTypeREDUCE      = "REDUCE"       // salida manual (merma)
	MovementTypeTRANSFER    = "TRANSFER"     // traslado entre ubicaciones
	MovementTypeADDLOCATION = "ADD_LOCATION" // alta de ubicación con existencia inicial
	MovementTypeRECEIPT     = "RECEIPT"      // entrada de mercancía
)

// InventoryMovement representa un cambio de existencia en una ubicación de un producto.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	Location      string
	Type          string
	Quantity      int // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
