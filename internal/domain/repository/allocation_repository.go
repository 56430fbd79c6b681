package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// AllocationRepository define el puerto del libro de asignaciones SA/EA.
// Solo inserción: no existe actualización ni borrado de una asignación.
type AllocationRepository interface {
	Create(ctx context.Context, a *entity.Allocation) error
	// SumBySa suma las cantidades (lado SA) de todas las asignaciones de la SA.
	SumBySa(ctx context.Context, saID string) (decimal.Decimal, error)
	// ListBySa ordena por created_at asc (y id) con la EA cargada.
	ListBySa(ctx context.Context, saID string) ([]*entity.Allocation, error)
	// ListByEa ordena por created_at asc (y id) con la SA y su familia cargadas.
	ListByEa(ctx context.Context, eaID string) ([]*entity.Allocation, error)
	CountBySa(ctx context.Context, saID string) (int, error)
	CountByEa(ctx context.Context, eaID string) (int, error)
}
