// Package sales registra ventas de punto de venta: precio por escalón, descuento de stock y cobro
// en una sola transacción.
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	appinventory "github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/ports"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain/pricing"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

const topProductsLimit = 10

// SaleUseCase orquesta el registro y la consulta de ventas.
type SaleUseCase struct {
	txRunner     SalesTxRunner
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	businessRepo repository.BusinessRepository
	receipts     ports.ReceiptGenerator
	observer     Observer
	now          func() time.Time
}

// NewSaleUseCase construye el caso de uso. receipts y observer pueden ser nil.
func NewSaleUseCase(
	txRunner SalesTxRunner,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	businessRepo repository.BusinessRepository,
	receipts ports.ReceiptGenerator,
	observer Observer,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		businessRepo: businessRepo,
		receipts:     receipts,
		observer:     observer,
		now:          time.Now,
	}
}

// pricedLine línea del carrito con su precio resuelto.
type pricedLine struct {
	product *entity.Product
	qty     int
	price   decimal.Decimal
	tier    pricing.Tier
}

func (l pricedLine) subtotal() decimal.Decimal {
	return l.price.Mul(decimal.NewFromInt(int64(l.qty)))
}

// RecordSale valida el carrito, resuelve precios y dentro de UNA transacción descuenta el stock de
// cada producto, guarda los movimientos y persiste la venta. Cualquier error revierte todo.
func (uc *SaleUseCase) RecordSale(ctx context.Context, businessID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q no soportado", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		UserID:        userID,
		PaymentMethod: in.PaymentMethod,
		Date:          now,
		CreatedAt:     now,
	}

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Bloqueo en orden de id para evitar deadlocks entre ventas concurrentes.
		products := make(map[string]*entity.Product)
		for _, id := range sortedProductIDs(in.Items) {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
			if p.BusinessID != businessID {
				return domain.ErrForbidden
			}
			products[id] = p
		}

		lines, err := priceLines(in.Items, products)
		if err != nil {
			return err
		}

		total := decimal.Zero
		pieces := 0
		for i, l := range lines {
			total = total.Add(l.subtotal())
			pieces += l.qty
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:           uuid.New().String(),
				SaleID:       sale.ID,
				Position:     i + 1,
				ProductID:    l.product.ID,
				PieceCode:    l.product.ProductCode,
				Description:  l.product.Name,
				TotalPieces:  l.qty,
				AppliedPrice: l.price,
				PriceTier:    string(l.tier),
				Subtotal:     l.subtotal(),
			})
		}
		sale.TotalAmount = total
		sale.TotalPieces = pieces

		payment, change, err := settlePayment(in.PaymentMethod, in.Payment, total)
		if err != nil {
			return err
		}
		sale.Payment = payment
		sale.Change = change

		// Un solo descuento por producto con la cantidad agregada de todas sus líneas.
		for _, id := range sortedProductIDs(in.Items) {
			p := products[id]
			qty := aggregatedQuantity(in.Items, id)
			after, err := inventory.ReduceStock(p.StockLocations, qty)
			if err != nil {
				return fmt.Errorf("%s (%s): %w", p.ProductCode, p.Name, err)
			}
			before := p.StockLocations
			oldVersion := p.Version
			p.StockLocations = after
			p.UpdatedAt = now
			if err := productRepo.UpdateStock(ctx, p, oldVersion); err != nil {
				return err
			}
			if err := appinventory.RecordMovements(ctx, movRepo, appinventory.MovementBatch{
				TransactionID: sale.ID,
				ProductID:     p.ID,
				Type:          entity.MovementTypeSALE,
				UnitCost:      p.Cost,
				UserID:        userID,
				Date:          now,
			}, before, after); err != nil {
				return err
			}
		}

		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	if uc.observer != nil {
		uc.observer.SaleRecorded(sale.PaymentMethod, sale.TotalAmount.InexactFloat64())
	}
	return toSaleResponse(sale, true), nil
}

// Quote cotiza el carrito sin tocar stock ni persistir nada.
func (uc *SaleUseCase) Quote(ctx context.Context, businessID string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product)
	for _, id := range sortedProductIDs(in.Items) {
		p, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if p.BusinessID != businessID {
			return nil, domain.ErrForbidden
		}
		products[id] = p
	}
	lines, err := priceLines(in.Items, products)
	if err != nil {
		return nil, err
	}

	out := &dto.QuoteResponse{Items: make([]dto.QuoteLineResponse, 0, len(lines)), TotalAmount: decimal.Zero}
	for _, l := range lines {
		out.Items = append(out.Items, dto.QuoteLineResponse{
			ProductID:   l.product.ID,
			PieceCode:   l.product.ProductCode,
			Description: l.product.Name,
			Quantity:    l.qty,
			UnitPrice:   l.price,
			PriceTier:   string(l.tier),
			PriceLabel:  l.tier.Label(),
			Subtotal:    l.subtotal(),
			Available:   l.product.TotalStock(),
		})
		out.TotalAmount = out.TotalAmount.Add(l.subtotal())
		out.TotalPieces += l.qty
	}
	return out, nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, businessID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, true), nil
}

// ListSales lista ventas del negocio, más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, businessID string, rng dto.DateRange, page dto.PageRequest) (*dto.SaleListResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.saleRepo.ListByBusiness(ctx, businessID, rng.From, rng.To, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, false))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Summary corte de ventas: totales por método de pago y productos más vendidos.
// Sin rango usa el día en curso (UTC); con solo to, el día de to.
func (uc *SaleUseCase) Summary(ctx context.Context, businessID string, rng dto.DateRange) (*dto.SalesSummaryResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	from := startOfDay(now)
	to := now
	if rng.To != nil {
		to = *rng.To
		from = startOfDay(to)
	}
	if rng.From != nil {
		from = *rng.From
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}

	var (
		totals []repository.PaymentMethodTotal
		top    []repository.ProductSalesTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.saleRepo.TotalsByPaymentMethod(gctx, businessID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		top, err = uc.saleRepo.TopProducts(gctx, businessID, from, to, topProductsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SalesSummaryResponse{
		From:            from,
		To:              to,
		TotalAmount:     decimal.Zero,
		ByPaymentMethod: make([]dto.PaymentMethodSummary, 0, len(totals)),
		TopProducts:     make([]dto.TopProductSummary, 0, len(top)),
	}
	for _, t := range totals {
		out.SaleCount += t.SaleCount
		out.TotalAmount = out.TotalAmount.Add(t.TotalAmount)
		out.ByPaymentMethod = append(out.ByPaymentMethod, dto.PaymentMethodSummary{
			PaymentMethod: t.PaymentMethod,
			SaleCount:     t.SaleCount,
			TotalAmount:   t.TotalAmount,
			CashAmount:    t.CashAmount,
			CardAmount:    t.CardAmount,
		})
	}
	for _, t := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductSummary{
			ProductID:   t.ProductID,
			PieceCode:   t.PieceCode,
			Description: t.Description,
			TotalPieces: t.TotalPieces,
			TotalAmount: t.TotalAmount,
		})
	}
	return out, nil
}

// Receipt genera el ticket PDF de la venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, businessID, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de comprobantes no configurado")
	}
	sale, err := uc.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.GenerateReceiptPDF(ctx, sale, business)
}

func (uc *SaleUseCase) load(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateItems(items []dto.SaleItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: la venta debe tener al menos una línea", domain.ErrInvalidInput)
	}
	room := inventory.MaxQuantity
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: línea %d sin product_id", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, it.Quantity)
		}
		if it.Quantity > room {
			return fmt.Errorf("%w: la venta excede %d piezas", domain.ErrInvalidInput, inventory.MaxQuantity)
		}
		room -= it.Quantity
	}
	return nil
}

// priceLines resuelve el precio de cada línea: automático por escalón o manual si trae unit_price.
func priceLines(items []dto.SaleItemRequest, products map[string]*entity.Product) ([]pricedLine, error) {
	lines := make([]pricedLine, 0, len(items))
	for _, it := range items {
		p := products[it.ProductID]
		table := pricing.FromProduct(p)
		var (
			price decimal.Decimal
			tier  pricing.Tier
			err   error
		)
		if it.UnitPrice != nil {
			tier, err = pricing.MatchManual(table, *it.UnitPrice)
			price = *it.UnitPrice
		} else {
			price, tier, err = pricing.Resolve(table, it.Quantity)
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, pricedLine{product: p, qty: it.Quantity, price: price, tier: tier})
	}
	return lines, nil
}

func sortedProductIDs(items []dto.SaleItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)
	return ids
}

func aggregatedQuantity(items []dto.SaleItemRequest, productID string) int {
	total := 0
	for _, it := range items {
		if it.ProductID == productID {
			total += it.Quantity
		}
	}
	return total
}

func toSaleResponse(s *entity.Sale, withItems bool) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		BusinessID:    s.BusinessID,
		UserID:        s.UserID,
		PaymentMethod: s.PaymentMethod,
		Payment: dto.PaymentResponse{
			CashAmount: s.Payment.CashAmount,
			CardAmount: s.Payment.CardAmount,
			Reference:  s.Payment.Reference,
		},
		TotalAmount: s.TotalAmount,
		TotalPieces: s.TotalPieces,
		Change:      s.Change,
		Date:        s.Date,
		CreatedAt:   s.CreatedAt,
	}
	if withItems {
		out.Items = make([]dto.SaleItemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, dto.SaleItemResponse{
				ProductID:    it.ProductID,
				PieceCode:    it.PieceCode,
				Description:  it.Description,
				TotalPieces:  it.TotalPieces,
				AppliedPrice: it.AppliedPrice,
				PriceTier:    it.PriceTier,
				Subtotal:     it.Subtotal,
			})
		}
	}
	return out
}
