package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
)

// EaHandler maneja las declaraciones de exportación (EA).
type EaHandler struct {
	uc *usecase.EaUseCase
}

// NewEaHandler construye el handler.
func NewEaHandler(uc *usecase.EaUseCase) *EaHandler {
	return &EaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear EA (con asignaciones opcionales en la misma transacción)
// @Tags         ea
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateEaRequest  true  "EA"
// @Success      201   {object}  dto.EaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ea [post]
func (h *EaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEaRequest
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

// List godoc
// @Summary      Listar EA con sus apurements (fecha de exportación desc)
// @Tags         ea
// @Produce      json
// @Security     BearerAuth
// @Param        customer_name  query  string  false  "cliente exacto"
// @Success      200  {object}  dto.EaListResponse
// @Router       /api/ea [get]
func (h *EaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("customer_name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener EA
// @Tags         ea
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "EA id"
// @Success      200  {object}  dto.EaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ea/{id} [get]
func (h *EaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar EA (solo sin apurements)
// @Tags         ea
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "EA id"
// @Param        body  body  dto.UpdateEaRequest  true  "campos"
// @Success      200   {object}  dto.EaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ea/{id} [patch]
func (h *EaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar EA (solo sin apurements)
// @Tags         ea
// @Security     BearerAuth
// @Param        id   path  string  true  "EA id"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ea/{id} [delete]
func (h *EaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
