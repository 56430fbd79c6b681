package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/apurement-api/internal/application/auth"
	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	FamilyUC    *usecase.FamilyUseCase
	SaUC        *usecase.SaUseCase
	EaUC        *usecase.EaUseCase
	ApurementUC *usecase.ApurementUseCase
	ReportUC    *report.UseCase
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	achat := RequireRole(entity.RoleAchat, entity.RoleAdmin)
	export := RequireRole(entity.RoleExport, entity.RoleAdmin)
	admin := RequireRole(entity.RoleAdmin)

	// Familias
	familyHandler := NewFamilyHandler(deps.FamilyUC)
	protected.Get("/sa-families", familyHandler.List)

	// SA
	saHandler := NewSaHandler(deps.SaUC, deps.ReportUC)
	sa := protected.Group("/sa")
	sa.Get("/", saHandler.List)
	sa.Get("/eligible", saHandler.Eligible)
	sa.Get("/:id", saHandler.GetByID)
	sa.Get("/:id/statement", saHandler.Statement)
	sa.Post("/", achat, saHandler.Create)
	sa.Patch("/:id", achat, saHandler.Update)
	sa.Delete("/:id", achat, saHandler.Delete)

	// EA
	eaHandler := NewEaHandler(deps.EaUC)
	ea := protected.Group("/ea")
	ea.Get("/", eaHandler.List)
	ea.Get("/:id", eaHandler.GetByID)
	ea.Post("/", export, eaHandler.Create)
	ea.Patch("/:id", export, eaHandler.Update)
	ea.Delete("/:id", export, eaHandler.Delete)

	// Apurement
	apHandler := NewApurementHandler(deps.ApurementUC)
	ap := protected.Group("/apurement")
	ap.Post("/", export, apHandler.Create)
	ap.Get("/sa/:saId", apHandler.ListForSa)
	ap.Get("/ea/:eaId", apHandler.ListForEa)
	ap.Post("/sa/:id/recalculate", admin, apHandler.Recalculate)

	// Exportes
	exportHandler := NewExportHandler(deps.ReportUC)
	exp := protected.Group("/export")
	exp.Get("/sa", RequireRole(entity.RoleAchat, entity.RoleAdmin, entity.RoleDGA), exportHandler.Sa)
	exp.Get("/ea", RequireRole(entity.RoleExport, entity.RoleAdmin, entity.RoleDGA), exportHandler.Ea)
}
