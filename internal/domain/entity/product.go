package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLocation es una partición nombrada del inventario de un producto (bodega, bin o tienda).
type StockLocation struct {
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
}

// Product representa un producto del catálogo con su existencia repartida por ubicación.
// StockLocations solo se modifica mediante operaciones de ledger (venta, traslado, alta de ubicación, entrada).
type Product struct {
	ID             string
	BusinessID     string
	BoxCode        string
	ProductCode    string // único por negocio
	Name           string
	PiecesPerBox   int
	Cost           decimal.Decimal // costo promedio ponderado
	Price1         decimal.Decimal // menudeo
	Price1MinQty   int
	Price2         decimal.Decimal // mayoreo
	Price2MinQty   int
	Price3         decimal.Decimal // caja
	Price3MinQty   int
	Price4         decimal.Decimal // opcional, solo selección manual
	Price5         decimal.Decimal // opcional, solo selección manual
	ImageURL       string
	StockLocations []StockLocation
	Version        int64 // se incrementa en cada mutación de stock
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalStock suma las cantidades de todas las ubicaciones.
func (p *Product) TotalStock() int {
	total := 0
	for _, l := range p.StockLocations {
		total += l.Quantity
	}
	return total
}
