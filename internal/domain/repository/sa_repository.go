package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// SaFilter filtros del listado de SA.
type SaFilter struct {
	Statuses []string
	FamilyID string
}

// SaRepository define el puerto de persistencia para SaDeclaration (DIP).
// GetByID y GetForUpdate devuelven la SA con su Family cargada (nil si no tiene).
type SaRepository interface {
	Create(ctx context.Context, sa *entity.SaDeclaration) error
	GetByID(ctx context.Context, id string) (*entity.SaDeclaration, error)
	// GetForUpdate bloquea la fila de la SA hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.SaDeclaration, error)
	GetByNumber(ctx context.Context, number string) (*entity.SaDeclaration, error)
	// List ordena por fecha de declaración desc y número asc.
	List(ctx context.Context, filter SaFilter) ([]*entity.SaDeclaration, error)
	// ListEligible devuelve las SA en los estados dados ordenadas por fecha de vencimiento asc.
	ListEligible(ctx context.Context, statuses []string, familyID string) ([]*entity.SaDeclaration, error)
	// Update solo persiste campos descriptivos; nunca quantity_apured ni status.
	Update(ctx context.Context, sa *entity.SaDeclaration) error
	Delete(ctx context.Context, id string) error
}

// SaApurementRepository es el único escritor de quantity_apured y status.
// Solo lo recibe el procedimiento de agregación.
type SaApurementRepository interface {
	UpdateApurement(ctx context.Context, saID string, quantityApured decimal.Decimal, status string) error
}
