package usecase

import (
	"context"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/dto"
)

// ApurementUseCase expone el motor de apurement con DTOs de entrada/salida.
type ApurementUseCase struct {
	engine *apurement.Service
}

// NewApurementUseCase construye el caso de uso.
func NewApurementUseCase(engine *apurement.Service) *ApurementUseCase {
	return &ApurementUseCase{engine: engine}
}

// Create registra una asignación (cantidad EA) y devuelve la cantidad consumida en la SA.
func (uc *ApurementUseCase) Create(ctx context.Context, userID string, in dto.CreateAllocationRequest) (*dto.AllocationResponse, error) {
	a, err := uc.engine.CreateAllocation(ctx, apurement.CreateAllocationInput{
		SaID:     in.SaID,
		EaID:     in.EaID,
		Quantity: in.Quantity,
		UserID:   userID,
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(a), nil
}

// ListForSa asignaciones de una SA (created_at asc).
func (uc *ApurementUseCase) ListForSa(ctx context.Context, saID string) (*dto.SaAllocationListResponse, error) {
	list, err := uc.engine.ListAllocationsForSa(ctx, saID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaAllocationResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toSaAllocationResponse(a))
	}
	return &dto.SaAllocationListResponse{Items: items}, nil
}

// ListForEa asignaciones de una EA con merma implicada y marca de familia distinta.
func (uc *ApurementUseCase) ListForEa(ctx context.Context, eaID string) (*dto.EaAllocationListResponse, error) {
	list, err := uc.engine.ListAllocationsForEa(ctx, eaID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EaAllocationResponse, 0, len(list))
	for _, v := range list {
		items = append(items, toEaAllocationResponse(v))
	}
	return &dto.EaAllocationListResponse{Items: items}, nil
}

// Recalculate vuelve a derivar quantity_apured y status de la SA.
func (uc *ApurementUseCase) Recalculate(ctx context.Context, saID string) (*dto.SaResponse, error) {
	sa, err := uc.engine.RecalculateSa(ctx, saID)
	if err != nil {
		return nil, err
	}
	return toSaResponse(sa), nil
}
