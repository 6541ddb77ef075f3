package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/sales"
)

// SaleHandler punto de venta: cotización, registro, consultas, corte y ticket.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Quote godoc
// @Summary      Cotizar carrito
// @Description  Resuelve el escalón de precio por cantidad sin afectar stock.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Líneas del carrito"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/quote [post]
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Quote(c.UserContext(), GetBusinessID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida stock, aplica precios, descuenta inventario y guarda la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "Carrito y pago"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordSale(c.UserContext(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	rng, ok, err := parseDateRange(c)
	if !ok {
		return err
	}
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListSales(c.UserContext(), GetBusinessID(c), rng, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Corte de ventas
// @Description  Totales por método de pago y productos más vendidos. Sin rango: el día en curso.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Router       /api/sales/summary [get]
func (h *SaleHandler) Summary(c *fiber.Ctx) error {
	rng, ok, err := parseDateRange(c)
	if !ok {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), GetBusinessID(c), rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Ticket de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Receipt(c.UserContext(), GetBusinessID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(pdf)
}
