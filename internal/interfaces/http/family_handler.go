package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/usecase"
)

// FamilyHandler expone la tabla de familias y coeficientes de merma.
type FamilyHandler struct {
	uc *usecase.FamilyUseCase
}

// NewFamilyHandler construye el handler.
func NewFamilyHandler(uc *usecase.FamilyUseCase) *FamilyHandler {
	return &FamilyHandler{uc: uc}
}

// List godoc
// @Summary      Listar familias (orden por etiqueta)
// @Tags         families
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.FamilyResponse
// @Router       /api/sa-families [get]
func (h *FamilyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
