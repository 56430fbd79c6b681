package repository

import (
	"context"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// EaFilter filtros del listado de EA.
type EaFilter struct {
	CustomerName string
}

// EaRepository define el puerto de persistencia para EaDeclaration (DIP).
type EaRepository interface {
	Create(ctx context.Context, ea *entity.EaDeclaration) error
	GetByID(ctx context.Context, id string) (*entity.EaDeclaration, error)
	// GetForUpdate bloquea la fila de la EA: excluye inserciones concurrentes de asignaciones (FK).
	GetForUpdate(ctx context.Context, id string) (*entity.EaDeclaration, error)
	GetByNumber(ctx context.Context, number string) (*entity.EaDeclaration, error)
	// List ordena por fecha de exportación desc y número asc.
	List(ctx context.Context, filter EaFilter) ([]*entity.EaDeclaration, error)
	Update(ctx context.Context, ea *entity.EaDeclaration) error
	Delete(ctx context.Context, id string) error
}
