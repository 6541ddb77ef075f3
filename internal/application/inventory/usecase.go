package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/inventory"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
)

// Nombres de operación reportados al Observer.
const (
	OpTransfer    = "transfer"
	OpAddLocation = "add_location"
	OpReceive     = "receive"
	OpReduce      = "reduce"
)

// LedgerUseCase aplica operaciones de ledger sobre las ubicaciones de stock de un producto
// de forma transaccional: bloqueo de fila (SELECT FOR UPDATE), verificación de versión y Commit/Rollback.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
	observer    Observer
}

// NewLedgerUseCase construye el caso de uso. observer puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	observer Observer,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		observer:    observer,
	}
}

// Target identifica el producto y quién opera. ExpectedVersion es opcional.
type Target struct {
	BusinessID      string
	UserID          string
	ProductID       string
	ExpectedVersion *int64
}

// TransferInput traslado entre ubicaciones.
type TransferInput struct {
	Target
	FromLocation string
	ToLocation   string
	Quantity     int
}

// AddLocationInput alta de ubicación con existencia inicial.
type AddLocationInput struct {
	Target
	Location string
	Quantity int
}

// ReceiveInput entrada de mercancía; recalcula el costo promedio ponderado.
type ReceiveInput struct {
	Target
	Location string
	Quantity int
	UnitCost decimal.Decimal
}

// ReduceInput salida manual (merma) con el mismo algoritmo de descuento que una venta.
type ReduceInput struct {
	Target
	Quantity int
}

// change calcula las nuevas ubicaciones y el costo unitario con el que se registran los movimientos.
type change func(p *entity.Product) (after []entity.StockLocation, movementCost decimal.Decimal, err error)

// Transfer mueve piezas entre ubicaciones; el destino se crea si no existe.
func (uc *LedgerUseCase) Transfer(ctx context.Context, in TransferInput) (*dto.ProductResponse, error) {
	return uc.apply(ctx, OpTransfer, entity.MovementTypeTRANSFER, in.Target, func(p *entity.Product) ([]entity.StockLocation, decimal.Decimal, error) {
		after, err := inventory.TransferStock(p.StockLocations, in.FromLocation, in.ToLocation, in.Quantity)
		return after, p.Cost, err
	})
}

// AddLocation agrega una ubicación nueva; falla con ErrDuplicate si ya existe.
func (uc *LedgerUseCase) AddLocation(ctx context.Context, in AddLocationInput) (*dto.ProductResponse, error) {
	return uc.apply(ctx, OpAddLocation, entity.MovementTypeADDLOCATION, in.Target, func(p *entity.Product) ([]entity.StockLocation, decimal.Decimal, error) {
		after, err := inventory.AddLocation(p.StockLocations, in.Location, in.Quantity)
		return after, p.Cost, err
	})
}

// Receive registra una entrada: suma existencia y actualiza el costo promedio del producto.
func (uc *LedgerUseCase) Receive(ctx context.Context, in ReceiveInput) (*dto.ProductResponse, error) {
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	return uc.apply(ctx, OpReceive, entity.MovementTypeRECEIPT, in.Target, func(p *entity.Product) ([]entity.StockLocation, decimal.Decimal, error) {
		after, err := inventory.ReceiveStock(p.StockLocations, in.Location, in.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		p.Cost = inventory.CostCalculator(
			decimal.NewFromInt(int64(p.TotalStock())), p.Cost,
			decimal.NewFromInt(int64(in.Quantity)), in.UnitCost,
		)
		return after, in.UnitCost, nil
	})
}

// Reduce descuenta piezas recorriendo las ubicaciones en orden.
func (uc *LedgerUseCase) Reduce(ctx context.Context, in ReduceInput) (*dto.ProductResponse, error) {
	return uc.apply(ctx, OpReduce, entity.MovementTypeREDUCE, in.Target, func(p *entity.Product) ([]entity.StockLocation, decimal.Decimal, error) {
		after, err := inventory.ReduceStock(p.StockLocations, in.Quantity)
		return after, p.Cost, err
	})
}

// ListMovements lista el historial de movimientos de un producto del negocio.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, businessID, productID string, rng dto.DateRange, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if err := usecase.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.movRepo.ListByProduct(ctx, productID, rng.From, rng.To, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			Location:      m.Location,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// apply: bloquea el producto, verifica negocio y versión, calcula el cambio, persiste con
// UPDATE ... WHERE version = $old y guarda un movimiento por ubicación afectada. Todo en una tx.
func (uc *LedgerUseCase) apply(ctx context.Context, op, movType string, t Target, fn change) (*dto.ProductResponse, error) {
	if err := usecase.RequireBusiness(t.BusinessID); err != nil {
		return nil, err
	}
	if t.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}

	var updated *entity.Product
	now := time.Now()
	txID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, t.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.BusinessID != t.BusinessID {
			return domain.ErrForbidden
		}
		if t.ExpectedVersion != nil && *t.ExpectedVersion != product.Version {
			return fmt.Errorf("%w: versión esperada %d, actual %d", domain.ErrConcurrencyConflict, *t.ExpectedVersion, product.Version)
		}

		before := product.StockLocations
		after, movCost, err := fn(product)
		if err != nil {
			return err
		}
		oldVersion := product.Version
		product.StockLocations = after
		product.UpdatedAt = now
		if err := productRepo.UpdateStock(ctx, product, oldVersion); err != nil {
			return err
		}
		if err := RecordMovements(ctx, movRepo, MovementBatch{
			TransactionID: txID,
			ProductID:     product.ID,
			Type:          movType,
			UnitCost:      movCost,
			UserID:        t.UserID,
			Date:          now,
		}, before, after); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if uc.observer != nil {
		uc.observer.StockOperation(op, err)
	}
	if err != nil {
		return nil, err
	}
	return usecase.ToProductResponse(updated), nil
}

// MovementBatch datos comunes de los movimientos generados por una operación.
type MovementBatch struct {
	TransactionID string
	ProductID     string
	Type          string
	UnitCost      decimal.Decimal
	UserID        string
	Date          time.Time
}

// RecordMovements guarda un movimiento por cada ubicación cuya cantidad cambió entre before y after.
// Lo usan también las ventas, dentro de su propia transacción.
func RecordMovements(ctx context.Context, movRepo repository.InventoryMovementRepository, b MovementBatch, before, after []entity.StockLocation) error {
	for _, d := range inventory.Diff(before, after) {
		qty := decimal.NewFromInt(int64(d.Quantity))
		mov := &entity.InventoryMovement{
			TransactionID: b.TransactionID,
			ProductID:     b.ProductID,
			Location:      d.Location,
			Type:          b.Type,
			Quantity:      d.Quantity,
			UnitCost:      b.UnitCost,
			TotalCost:     qty.Mul(b.UnitCost),
			Date:          b.Date,
			CreatedAt:     b.Date,
			CreatedBy:     b.UserID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}
