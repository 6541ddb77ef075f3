package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/dto"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
)

// BusinessHandler alta y consulta de negocios (Super Administrador, Sistemas).
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Create godoc
// @Summary      Crear negocio
// @Tags         businesses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "Nombre del negocio"
// @Success      201   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener negocio por ID
// @Tags         businesses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar negocios
// @Tags         businesses
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.BusinessListResponse
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
