package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-pos-api/internal/domain/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

const (
	replenishmentWindow   = 30 * 24 * time.Hour
	replenishmentPageSize = 500
	topSellersLimit       = 500
)

// ReplenishmentUseCase genera la lista de reposición de un negocio.
// Prioriza los productos bajo su punto de reorden por piezas vendidas en los últimos 30 días.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, saleRepo: saleRepo, now: time.Now}
}

// GenerateReplenishmentList devuelve los productos cuyo stock está por debajo del punto de reorden.
// minStock 0 usa una caja (pieces_per_box) como punto de reorden de cada producto.
// location vacía considera el stock total; si no, solo el de esa ubicación.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	businessID, location string,
	minStock int,
) (*dto.ReplenishmentResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	if minStock < 0 {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	location = domaininv.NormalizeLocation(location)

	// 1. Productos por debajo del punto de reorden
	var low []*entity.Product
	for offset := 0; ; offset += replenishmentPageSize {
		page, err := uc.productRepo.ListByBusiness(ctx, businessID, repository.ProductFilter{
			Limit: replenishmentPageSize, Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if stockAt(p, location) < reorderPoint(p, minStock) {
				low = append(low, p)
			}
		}
		if len(page) < replenishmentPageSize {
			break
		}
	}

	// 2. Piezas vendidas en la ventana
	end := uc.now()
	start := end.Add(-replenishmentWindow)
	sold := make(map[string]int)
	if len(low) > 0 {
		top, err := uc.saleRepo.TopProducts(ctx, businessID, start, end, topSellersLimit)
		if err != nil {
			return nil, err
		}
		for _, t := range top {
			sold[t.ProductID] = t.TotalPieces
		}
	}

	// 3. Sugerencias: completar 1.5 veces el punto de reorden en cajas completas
	items := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		current := stockAt(p, location)
		reorder := reorderPoint(p, minStock)
		ideal := (reorder*3 + 1) / 2
		boxes := ceilDiv(ideal-current, p.PiecesPerBox)
		qty := boxes * max(p.PiecesPerBox, 1)
		items = append(items, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			ProductCode:        p.ProductCode,
			Name:               p.Name,
			CurrentStock:       current,
			ReorderPoint:       reorder,
			IdealStock:         ideal,
			SuggestedBoxes:     boxes,
			SuggestedOrderQty:  qty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(int64(qty))),
			UnitsSoldLast30:    sold[p.ID],
		})
	}

	// 4. Mayor venta primero; empate por mayor déficit
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.UnitsSoldLast30 != b.UnitsSoldLast30 {
			return a.UnitsSoldLast30 > b.UnitsSoldLast30
		}
		return a.ReorderPoint-a.CurrentStock > b.ReorderPoint-b.CurrentStock
	})

	total := decimal.Zero
	for i := range items {
		items[i].Priority = i + 1
		total = total.Add(items[i].EstimatedOrderCost)
	}
	return &dto.ReplenishmentResponse{
		Location:           location,
		GeneratedAt:        end,
		Items:              items,
		EstimatedTotalCost: total,
	}, nil
}

func stockAt(p *entity.Product, location string) int {
	if location == "" {
		return p.TotalStock()
	}
	for _, l := range p.StockLocations {
		if l.Location == location {
			return l.Quantity
		}
	}
	return 0
}

func reorderPoint(p *entity.Product, minStock int) int {
	if minStock > 0 {
		return minStock
	}
	return max(p.PiecesPerBox, 1)
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	if d <= 0 {
		d = 1
	}
	return (n + d - 1) / d
}
