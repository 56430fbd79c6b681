package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
)

// ApurementHandler registra y consulta asignaciones SA/EA.
type ApurementHandler struct {
	uc *usecase.ApurementUseCase
}

// NewApurementHandler construye el handler.
func NewApurementHandler(uc *usecase.ApurementUseCase) *ApurementHandler {
	return &ApurementHandler{uc: uc}
}

// Create godoc
// @Summary      Asignar una cantidad EA a una SA
// @Description  quantity es la cantidad EA; se convierte a cantidad SA con la merma de la familia de la SA.
// @Tags         apurement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAllocationRequest  true  "sa_id, ea_id, quantity"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/apurement [post]
func (h *ApurementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListForSa godoc
// @Summary      Asignaciones de una SA
// @Tags         apurement
// @Produce      json
// @Security     BearerAuth
// @Param        saId  path  string  true  "SA id"
// @Success      200   {object}  dto.SaAllocationListResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/apurement/sa/{saId} [get]
func (h *ApurementHandler) ListForSa(c *fiber.Ctx) error {
	out, err := h.uc.ListForSa(c.Context(), c.Params("saId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListForEa godoc
// @Summary      Asignaciones de una EA (con merma y diferencia de familia)
// @Tags         apurement
// @Produce      json
// @Security     BearerAuth
// @Param        eaId  path  string  true  "EA id"
// @Success      200   {object}  dto.EaAllocationListResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/apurement/ea/{eaId} [get]
func (h *ApurementHandler) ListForEa(c *fiber.Ctx) error {
	out, err := h.uc.ListForEa(c.Context(), c.Params("eaId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular quantity_apured y estado de una SA desde el ledger
// @Tags         apurement
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "SA id"
// @Success      200  {object}  dto.SaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/apurement/sa/{id}/recalculate [post]
func (h *ApurementHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.uc.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
