package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
)

// InventoryHandler operaciones del ledger de stock por producto.
type InventoryHandler struct {
	uc            *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// Transfer godoc
// @Summary      Transferir stock entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                    true   "ID del producto"
// @Param        Idempotency-Key  header  string                    false  "Clave de idempotencia"
// @Param        body             body    dto.TransferStockRequest  true   "Origen, destino y cantidad"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.TransferFromRequest(c.UserContext(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddLocation godoc
// @Summary      Agregar una ubicación con stock inicial
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                  true   "ID del producto"
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.AddLocationRequest  true   "Ubicación y cantidad"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/locations [post]
func (h *InventoryHandler) AddLocation(c *fiber.Ctx) error {
	var in dto.AddLocationRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLocationFromRequest(c.UserContext(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Entrada de mercancía
// @Description  Suma stock en la ubicación y recalcula el costo promedio ponderado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                   true   "ID del producto"
// @Param        Idempotency-Key  header  string                   false  "Clave de idempotencia"
// @Param        body             body    dto.ReceiveStockRequest  true   "Ubicación, cantidad y costo unitario"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.ReceiveFromRequest(c.UserContext(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reduce godoc
// @Summary      Descontar stock (merma o salida manual)
// @Description  Descuenta en orden de ubicación hasta cubrir la cantidad.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                  true   "ID del producto"
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.ReduceStockRequest  true   "Cantidad"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reduce [post]
func (h *InventoryHandler) Reduce(c *fiber.Ctx) error {
	var in dto.ReduceStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.ReduceFromRequest(c.UserContext(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos de inventario del producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	rng, ok, err := parseDateRange(c)
	if !ok {
		return err
	}
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), GetBusinessID(c), c.Params("id"), rng, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos bajo su punto de reorden con pedido sugerido en cajas completas, priorizados por venta de los últimos 30 días.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location   query  string  false  "Ubicación (vacío: stock total)"
// @Param        min_stock  query  int     false  "Punto de reorden (0: una caja)"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(
		c.UserContext(), GetBusinessID(c), c.Query("location"), c.QueryInt("min_stock", 0),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
