package usecase

import (
	"context"

	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

// FamilyUseCase consulta de la tabla de familias / coeficientes.
type FamilyUseCase struct {
	repo repository.FamilyRepository
}

// NewFamilyUseCase construye el caso de uso.
func NewFamilyUseCase(repo repository.FamilyRepository) *FamilyUseCase {
	return &FamilyUseCase{repo: repo}
}

// List familias activas ordenadas por etiqueta.
func (uc *FamilyUseCase) List(ctx context.Context) ([]dto.FamilyResponse, error) {
	list, err := uc.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FamilyResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFamilyResponse(f))
	}
	return out, nil
}

// Import carga o actualiza familias (arranque en memoria y carga inicial).
func (uc *FamilyUseCase) Import(ctx context.Context, families []*entity.Family) error {
	for _, f := range families {
		if err := uc.repo.Upsert(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
