// Package inventory contiene las operaciones puras de ledger sobre las ubicaciones de stock de un producto.
// Ninguna función modifica el slice recibido: siempre devuelven uno nuevo.
package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// MaxQuantity tope de piezas de un producto (suma de todas sus ubicaciones) y de una operación.
// Cabe en las columnas INTEGER de movimientos y ventas.
const MaxQuantity = 1_000_000_000

// NormalizeLocation deja el nombre de ubicación en mayúsculas y sin espacios en los extremos.
func NormalizeLocation(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// TotalStock suma las cantidades de todas las ubicaciones.
func TotalStock(locs []entity.StockLocation) int {
	total := 0
	for _, l := range locs {
		total += l.Quantity
	}
	return total
}

// NormalizeLocations normaliza nombres y valida que no haya cantidades negativas ni ubicaciones repetidas.
// Se usa al crear o editar un producto con su stock inicial.
func NormalizeLocations(locs []entity.StockLocation) ([]entity.StockLocation, error) {
	out := make([]entity.StockLocation, 0, len(locs))
	seen := make(map[string]struct{}, len(locs))
	for _, l := range locs {
		name := NormalizeLocation(l.Location)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre de ubicación es requerido", domain.ErrInvalidInput)
		}
		if l.Quantity < 0 {
			return nil, fmt.Errorf("%w: la cantidad de %s no puede ser negativa", domain.ErrInvalidInput, name)
		}
		if l.Quantity > MaxQuantity {
			return nil, fmt.Errorf("%w: la cantidad de %s excede %d", domain.ErrInvalidInput, name, MaxQuantity)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: ubicación %s repetida", domain.ErrDuplicate, name)
		}
		seen[name] = struct{}{}
		out = append(out, entity.StockLocation{Location: name, Quantity: l.Quantity})
	}
	if !withinLimit(out, 0) {
		return nil, errOverLimit()
	}
	return out, nil
}

// ReduceStock descuenta quantity piezas recorriendo las ubicaciones en el orden guardado
// y vaciando cada una antes de pasar a la siguiente.
// Si el total no alcanza devuelve ErrInsufficientStock sin tocar nada.
func ReduceStock(locs []entity.StockLocation, quantity int) ([]entity.StockLocation, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if !withinLimit(locs, 0) {
		return nil, errOverLimit()
	}
	if total := TotalStock(locs); total < quantity {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, total, quantity)
	}
	out := clone(locs)
	remaining := quantity
	for i := range out {
		if remaining == 0 {
			break
		}
		take := out[i].Quantity
		if take > remaining {
			take = remaining
		}
		out[i].Quantity -= take
		remaining -= take
	}
	return out, nil
}

// TransferStock mueve quantity piezas de from a to. Si to no existe se agrega al final.
// El total del producto no cambia.
func TransferStock(locs []entity.StockLocation, from, to string, quantity int) ([]entity.StockLocation, error) {
	from, to = NormalizeLocation(from), NormalizeLocation(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: origen y destino son requeridos", domain.ErrInvalidInput)
	}
	if from == to {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if !withinLimit(locs, 0) {
		return nil, errOverLimit()
	}
	src := indexOf(locs, from)
	if src < 0 {
		return nil, fmt.Errorf("%w %s", domain.ErrLocationNotFound, from)
	}
	if locs[src].Quantity < quantity {
		return nil, fmt.Errorf("%w: %s tiene %d, solicitado %d", domain.ErrInsufficientStock, from, locs[src].Quantity, quantity)
	}
	out := clone(locs)
	out[src].Quantity -= quantity
	if dst := indexOf(out, to); dst >= 0 {
		out[dst].Quantity += quantity
	} else {
		out = append(out, entity.StockLocation{Location: to, Quantity: quantity})
	}
	return out, nil
}

// AddLocation agrega una ubicación nueva con existencia inicial.
func AddLocation(locs []entity.StockLocation, location string, quantity int) ([]entity.StockLocation, error) {
	location = NormalizeLocation(location)
	if location == "" {
		return nil, fmt.Errorf("%w: el nombre de ubicación es requerido", domain.ErrInvalidInput)
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if indexOf(locs, location) >= 0 {
		return nil, fmt.Errorf("%w: la ubicación %s ya existe", domain.ErrDuplicate, location)
	}
	if !withinLimit(locs, quantity) {
		return nil, errOverLimit()
	}
	out := clone(locs)
	return append(out, entity.StockLocation{Location: location, Quantity: quantity}), nil
}

// ReceiveStock registra una entrada de mercancía: suma a la ubicación o la crea si no existe.
func ReceiveStock(locs []entity.StockLocation, location string, quantity int) ([]entity.StockLocation, error) {
	location = NormalizeLocation(location)
	if location == "" {
		return nil, fmt.Errorf("%w: el nombre de ubicación es requerido", domain.ErrInvalidInput)
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if !withinLimit(locs, quantity) {
		return nil, errOverLimit()
	}
	out := clone(locs)
	if i := indexOf(out, location); i >= 0 {
		out[i].Quantity += quantity
		return out, nil
	}
	return append(out, entity.StockLocation{Location: location, Quantity: quantity}), nil
}

// Diff devuelve, por ubicación, la variación de cantidad entre before y after (solo las que cambian),
// en el orden de after. Se usa para generar los movimientos del ledger.
func Diff(before, after []entity.StockLocation) []entity.StockLocation {
	prev := make(map[string]int, len(before))
	for _, l := range before {
		prev[l.Location] = l.Quantity
	}
	var out []entity.StockLocation
	for _, l := range after {
		if delta := l.Quantity - prev[l.Location]; delta != 0 {
			out = append(out, entity.StockLocation{Location: l.Location, Quantity: delta})
		}
	}
	return out
}

func checkQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("%w: la cantidad excede %d", domain.ErrInvalidInput, MaxQuantity)
	}
	return nil
}

// withinLimit indica si el total de locs más add no rebasa MaxQuantity. Suma sin desbordar.
func withinLimit(locs []entity.StockLocation, add int) bool {
	room := MaxQuantity - add
	for _, l := range locs {
		if l.Quantity > room {
			return false
		}
		room -= l.Quantity
	}
	return true
}

func errOverLimit() error {
	return fmt.Errorf("%w: la existencia del producto excedería %d piezas", domain.ErrInvalidInput, MaxQuantity)
}

func indexOf(locs []entity.StockLocation, name string) int {
	for i, l := range locs {
		if NormalizeLocation(l.Location) == name {
			return i
		}
	}
	return -1
}

func clone(locs []entity.StockLocation) []entity.StockLocation {
	out := make([]entity.StockLocation, len(locs))
	copy(out, locs)
	return out
}
