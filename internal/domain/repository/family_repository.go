package repository

import (
	"context"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// FamilyRepository define el puerto de lectura de la tabla de coeficientes por familia.
// El núcleo de apurement solo la lee; Upsert lo usa la carga inicial.
type FamilyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Family, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Family, error)
	Upsert(ctx context.Context, family *entity.Family) error
}
