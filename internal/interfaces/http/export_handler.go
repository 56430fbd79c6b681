package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/report"
)

// ExportHandler descargas xlsx de SA y EA.
type ExportHandler struct {
	uc *report.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *report.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Sa godoc
// @Summary      Exporte xlsx de SA
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/export/sa [get]
func (h *ExportHandler) Sa(c *fiber.Ctx) error {
	f, err := h.uc.ExportSa(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, f)
}

// Ea godoc
// @Summary      Exporte xlsx de EA (una fila por asignación)
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        customer_name  query  string  false  "cliente exacto"
// @Success      200  {file}  binary
// @Router       /api/export/ea [get]
func (h *ExportHandler) Ea(c *fiber.Ctx) error {
	f, err := h.uc.ExportEa(c.Context(), c.Query("customer_name"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, f)
}
