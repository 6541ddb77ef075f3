// Package pricing resuelve el precio unitario de una línea de venta a partir de la tabla de
// precios escalonados del producto (menudeo, mayoreo, caja).
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// Tier identifica el escalón de precio aplicado.
type Tier string

const (
	TierRetail    Tier = "retail"    // price1
	TierWholesale Tier = "wholesale" // price2
	TierBox       Tier = "box"       // price3
	TierPrice4    Tier = "price4"    // solo selección manual
	TierPrice5    Tier = "price5"    // solo selección manual
)

// Label devuelve la etiqueta que se muestra al cajero.
func (t Tier) Label() string {
	switch t {
	case TierRetail:
		return "Precio menudeo"
	case TierWholesale:
		return "Precio mayoreo"
	case TierBox:
		return "Precio caja"
	case TierPrice4:
		return "Precio 4"
	case TierPrice5:
		return "Precio 5"
	}
	return string(t)
}

// Table es la tabla de precios de un producto. Price4/Price5 en cero significan "no configurado".
type Table struct {
	Price1       decimal.Decimal
	Price1MinQty int
	Price2       decimal.Decimal
	Price2MinQty int
	Price3       decimal.Decimal
	Price3MinQty int
	Price4       decimal.Decimal
	Price5       decimal.Decimal
}

// FromProduct extrae la tabla de precios del producto.
func FromProduct(p *entity.Product) Table {
	return Table{
		Price1:       p.Price1,
		Price1MinQty: p.Price1MinQty,
		Price2:       p.Price2,
		Price2MinQty: p.Price2MinQty,
		Price3:       p.Price3,
		Price3MinQty: p.Price3MinQty,
		Price4:       p.Price4,
		Price5:       p.Price5,
	}
}

// Resolve selecciona el precio unitario para la cantidad dada, evaluando de mayor a menor escalón:
// caja si quantity >= Price3MinQty, mayoreo si quantity >= Price2MinQty, si no menudeo.
func Resolve(t Table, quantity int) (decimal.Decimal, Tier, error) {
	if quantity <= 0 {
		return decimal.Zero, "", fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if quantity >= t.Price3MinQty {
		return t.Price3, TierBox, nil
	}
	if quantity >= t.Price2MinQty {
		return t.Price2, TierWholesale, nil
	}
	return t.Price1, TierRetail, nil
}

// MatchManual devuelve el escalón cuyo precio coincide con el elegido manualmente por el cajero.
// Solo se aceptan precios configurados en la tabla (price1..price5).
func MatchManual(t Table, price decimal.Decimal) (Tier, error) {
	candidates := []struct {
		price decimal.Decimal
		tier  Tier
	}{
		{t.Price1, TierRetail},
		{t.Price2, TierWholesale},
		{t.Price3, TierBox},
		{t.Price4, TierPrice4},
		{t.Price5, TierPrice5},
	}
	for _, c := range candidates {
		if c.price.IsPositive() && c.price.Equal(price) {
			return c.tier, nil
		}
	}
	return "", fmt.Errorf("%w: el precio %s no corresponde a ningún escalón del producto", domain.ErrInvalidInput, price.String())
}

// Validate verifica la tabla al guardar el producto para evitar precios mal resueltos:
// umbrales estrictamente crecientes, precios no crecientes y ningún precio por debajo del costo.
func Validate(t Table, cost decimal.Decimal) error {
	if cost.IsNegative() {
		return fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
	}
	if t.Price1MinQty <= 0 || t.Price2MinQty <= t.Price1MinQty || t.Price3MinQty <= t.Price2MinQty {
		return fmt.Errorf("%w: las cantidades mínimas deben ser crecientes (price1_min_qty < price2_min_qty < price3_min_qty)", domain.ErrInvalidInput)
	}
	if !t.Price3.IsPositive() || t.Price2.LessThan(t.Price3) || t.Price1.LessThan(t.Price2) {
		return fmt.Errorf("%w: los precios deben cumplir price1 >= price2 >= price3 > 0", domain.ErrInvalidInput)
	}
	prices := map[string]decimal.Decimal{
		"price1": t.Price1, "price2": t.Price2, "price3": t.Price3,
		"price4": t.Price4, "price5": t.Price5,
	}
	for _, name := range []string{"price1", "price2", "price3", "price4", "price5"} {
		p := prices[name]
		if p.IsNegative() {
			return fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, name)
		}
		if p.IsZero() {
			continue // price4/price5 opcionales
		}
		if p.LessThan(cost) {
			return fmt.Errorf("%w: %s no puede ser menor que el costo %s", domain.ErrInvalidInput, name, cost.String())
		}
	}
	return nil
}
