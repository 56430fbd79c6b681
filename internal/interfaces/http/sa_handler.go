package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

// SaHandler maneja las declaraciones de admisión temporal (SA).
type SaHandler struct {
	uc      *usecase.SaUseCase
	reports *report.UseCase
}

// NewSaHandler construye el handler.
func NewSaHandler(uc *usecase.SaUseCase, reports *report.UseCase) *SaHandler {
	return &SaHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear SA
// @Tags         sa
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSaRequest  true  "SA"
// @Success      201   {object}  dto.SaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sa [post]
func (h *SaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaRequest
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
// @Summary      Listar SA (fecha de declaración desc)
// @Tags         sa
// @Produce      json
// @Security     BearerAuth
// @Param        status     query  string  false  "estados separados por coma"
// @Param        family_id  query  string  false  "familia"
// @Success      200  {object}  dto.SaListResponse
// @Router       /api/sa [get]
func (h *SaHandler) List(c *fiber.Ctx) error {
	filter := repository.SaFilter{FamilyID: c.Query("family_id")}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		for _, st := range strings.Split(s, ",") {
			filter.Statuses = append(filter.Statuses, strings.ToUpper(strings.TrimSpace(st)))
		}
	}
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Eligible godoc
// @Summary      SA elegibles para apurement (vencimiento asc)
// @Tags         sa
// @Produce      json
// @Security     BearerAuth
// @Param        family_id  query  string  false  "familia"
// @Success      200  {object}  dto.EligibleSaListResponse
// @Router       /api/sa/eligible [get]
func (h *SaHandler) Eligible(c *fiber.Ctx) error {
	out, err := h.uc.Eligible(c.Context(), c.Query("family_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener SA
// @Tags         sa
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "SA id"
// @Success      200  {object}  dto.SaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sa/{id} [get]
func (h *SaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar SA (solo sin apurements)
// @Tags         sa
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "SA id"
// @Param        body  body  dto.UpdateSaRequest  true  "campos"
// @Success      200   {object}  dto.SaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sa/{id} [patch]
func (h *SaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaRequest
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
// @Summary      Eliminar SA (solo sin apurements)
// @Tags         sa
// @Security     BearerAuth
// @Param        id   path  string  true  "SA id"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sa/{id} [delete]
func (h *SaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Statement godoc
// @Summary      Estado de apurement de la SA (PDF)
// @Tags         sa
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "SA id"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sa/{id}/statement [get]
func (h *SaHandler) Statement(c *fiber.Ctx) error {
	f, err := h.reports.SaStatement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, f)
}

// sendFile envía un documento generado como descarga.
func sendFile(c *fiber.Ctx, f *report.File) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.Name+`"`)
	return c.Send(f.Content)
}
