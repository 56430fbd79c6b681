package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/domain"
	calc "github.com/jhoicas/apurement-api/internal/domain/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// EaUseCase casos de uso de declaraciones de exportación (EA).
type EaUseCase struct {
	engine *apurement.Service
	reads  apurement.Repos
	log    *logger.Logger
}

// NewEaUseCase construye el caso de uso.
func NewEaUseCase(engine *apurement.Service, reads apurement.Repos, log *logger.Logger) *EaUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EaUseCase{engine: engine, reads: reads, log: log.Named("ea")}
}

// Create registra una EA y, si vienen SA vinculadas, sus asignaciones en la misma transacción:
// o se confirman la EA y todas las asignaciones, o ninguna.
func (uc *EaUseCase) Create(ctx context.Context, userID string, in dto.CreateEaRequest) (*dto.EaResponse, error) {
	if !in.TotalQuantity.IsPositive() {
		return nil, domain.NewValidationError("la cantidad total debe ser un número positivo")
	}
	number, err := NormalizeNumber("EA", in.EaNumber)
	if err != nil {
		return nil, err
	}
	exportDate, err := parseDate("export_date", in.ExportDate)
	if err != nil {
		return nil, err
	}

	linked := append([]dto.LinkedSaRequest(nil), in.LinkedSas...)
	if in.LinkedSaID != "" && in.LinkedQuantity != nil {
		linked = append(linked, dto.LinkedSaRequest{SaID: in.LinkedSaID, Quantity: *in.LinkedQuantity})
	}
	for _, l := range linked {
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("la cantidad vinculada debe ser positiva para cada SA")
		}
	}

	familyID, scrapPercent, err := uc.resolveFamily(ctx, in, linked)
	if err != nil {
		return nil, err
	}
	var scrapQty *decimal.Decimal
	if scrapPercent != nil && scrapPercent.IsPositive() {
		q := calc.ScrapQuantity(in.TotalQuantity, scrapPercent.Div(hundred))
		if q.IsPositive() {
			scrapQty = &q
		}
	}

	regime := in.RegimeCode
	if regime == "" {
		regime = entity.EaDefaultRegimeCode
	}
	now := uc.engine.Now()
	ea := &entity.EaDeclaration{
		ID:                 apurement.NewID(),
		Number:             number,
		RegimeCode:         regime,
		ExportDate:         exportDate,
		Status:             entity.EaStatusSubmitted,
		CustomerName:       in.CustomerName,
		DestinationCountry: in.DestinationCountry,
		ProductRef:         in.ProductRef,
		ProductDesc:        in.ProductDesc,
		TotalQuantity:      in.TotalQuantity,
		QuantityUnit:       in.QuantityUnit,
		FamilyID:           familyID,
		ScrapPercent:       scrapPercent,
		ScrapQuantity:      scrapQty,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	keys := []string{apurement.EaLockKey(ea.ID)}
	for _, l := range linked {
		keys = append(keys, apurement.SaLockKey(l.SaID))
	}
	err = uc.engine.Write(ctx, keys, func(r apurement.Repos) error {
		existing, err := r.Ea.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := r.Ea.Create(ctx, ea); err != nil {
			return err
		}
		for _, l := range linked {
			if _, err := apurement.AllocateInTx(ctx, r, apurement.CreateAllocationInput{
				SaID: l.SaID, EaID: ea.ID, Quantity: l.Quantity, UserID: userID,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("number", number).Int("linked_sas", len(linked)).Msg("EA rechazada")
		return nil, err
	}
	uc.log.Info().Str("ea_id", ea.ID).Str("number", number).Int("linked_sas", len(linked)).Msg("EA creada")
	return uc.withAllocations(ctx, ea)
}

// resolveFamily familia de la EA: family_id explícito, si no scrap_percent explícito,
// si no la familia de la primera SA vinculada.
func (uc *EaUseCase) resolveFamily(ctx context.Context, in dto.CreateEaRequest, linked []dto.LinkedSaRequest) (string, *decimal.Decimal, error) {
	if in.ScrapPercent != nil && (in.ScrapPercent.IsNegative() || in.ScrapPercent.GreaterThanOrEqual(hundred)) {
		return "", nil, domain.NewValidationError("scrap_percent debe estar entre 0 y 100")
	}
	if in.FamilyID != "" {
		family, err := uc.reads.Families.GetByID(ctx, in.FamilyID)
		if err != nil {
			return "", nil, err
		}
		if family == nil {
			return "", nil, domain.NewNotFoundError("Familia", in.FamilyID)
		}
		if family.ScrapPercent.IsPositive() {
			p := family.ScrapPercent
			return family.ID, &p, nil
		}
		return family.ID, in.ScrapPercent, nil
	}
	if in.ScrapPercent != nil || len(linked) == 0 {
		return "", in.ScrapPercent, nil
	}
	sa, err := uc.reads.Sa.GetByID(ctx, linked[0].SaID)
	if err != nil {
		return "", nil, err
	}
	if sa == nil || sa.Family == nil {
		// la SA inexistente la reporta la asignación
		return "", nil, nil
	}
	if sa.Family.ScrapPercent.IsPositive() {
		p := sa.Family.ScrapPercent
		return sa.Family.ID, &p, nil
	}
	return sa.Family.ID, nil, nil
}

// GetByID obtiene una EA con sus apurements.
func (uc *EaUseCase) GetByID(ctx context.Context, id string) (*dto.EaResponse, error) {
	ea, err := uc.reads.Ea.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, domain.NewNotFoundError("EA", id)
	}
	return uc.withAllocations(ctx, ea)
}

// List lista EA (fecha de exportación desc) con sus apurements; customerName filtra por cliente exacto.
func (uc *EaUseCase) List(ctx context.Context, customerName string) (*dto.EaListResponse, error) {
	list, err := uc.reads.Ea.List(ctx, repository.EaFilter{CustomerName: customerName})
	if err != nil {
		return nil, err
	}
	items := make([]dto.EaResponse, 0, len(list))
	for _, ea := range list {
		resp, err := uc.withAllocations(ctx, ea)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.EaListResponse{Items: items}, nil
}

func (uc *EaUseCase) withAllocations(ctx context.Context, ea *entity.EaDeclaration) (*dto.EaResponse, error) {
	list, err := uc.reads.Allocations.ListByEa(ctx, ea.ID)
	if err != nil {
		return nil, err
	}
	resp := toEaResponse(ea)
	for _, a := range list {
		resp.Allocations = append(resp.Allocations, toEaAllocationResponse(apurement.ToEaAllocation(ea, a)))
	}
	return resp, nil
}

// Update modifica una EA. Rechazado si ya está utilizada en un apurement.
func (uc *EaUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateEaRequest) (*dto.EaResponse, error) {
	var out *entity.EaDeclaration
	err := uc.engine.Write(ctx, []string{apurement.EaLockKey(id)}, func(r apurement.Repos) error {
		ea, err := lockUnallocatedEa(ctx, r, id, "modificar")
		if err != nil {
			return err
		}
		if in.EaNumber != nil {
			number, err := NormalizeNumber("EA", *in.EaNumber)
			if err != nil {
				return err
			}
			if number != ea.Number {
				other, err := r.Ea.GetByNumber(ctx, number)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.ErrDuplicate
				}
			}
			ea.Number = number
		}
		if in.ExportDate != nil {
			d, err := parseDate("export_date", *in.ExportDate)
			if err != nil {
				return err
			}
			ea.ExportDate = d
		}
		if in.CustomerName != nil {
			ea.CustomerName = *in.CustomerName
		}
		if in.DestinationCountry != nil {
			ea.DestinationCountry = *in.DestinationCountry
		}
		if in.ProductRef != nil {
			ea.ProductRef = *in.ProductRef
		}
		if in.ProductDesc != nil {
			ea.ProductDesc = *in.ProductDesc
		}
		if in.TotalQuantity != nil {
			if !in.TotalQuantity.IsPositive() {
				return domain.NewValidationError("total_quantity debe ser un número positivo")
			}
			ea.TotalQuantity = *in.TotalQuantity
			if ea.ScrapPercent != nil {
				q := calc.ScrapQuantity(ea.TotalQuantity, ea.ScrapPercent.Div(hundred))
				ea.ScrapQuantity = &q
			}
		}
		if in.QuantityUnit != nil {
			ea.QuantityUnit = *in.QuantityUnit
		}
		if in.RegimeCode != nil {
			ea.RegimeCode = *in.RegimeCode
			if ea.RegimeCode == "" {
				ea.RegimeCode = entity.EaDefaultRegimeCode
			}
		}
		ea.UpdatedBy = userID
		ea.UpdatedAt = uc.engine.Now()
		if err := r.Ea.Update(ctx, ea); err != nil {
			return err
		}
		out = ea
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toEaResponse(out), nil
}

// Delete elimina una EA sin apurements.
func (uc *EaUseCase) Delete(ctx context.Context, id string) error {
	err := uc.engine.Write(ctx, []string{apurement.EaLockKey(id)}, func(r apurement.Repos) error {
		if _, err := lockUnallocatedEa(ctx, r, id, "eliminar"); err != nil {
			return err
		}
		return r.Ea.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("ea_id", id).Msg("EA eliminada")
	return nil
}

// lockUnallocatedEa bloquea la EA y verifica que ninguna asignación la referencie.
func lockUnallocatedEa(ctx context.Context, r apurement.Repos, id, action string) (*entity.EaDeclaration, error) {
	ea, err := r.Ea.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, domain.NewNotFoundError("EA", id)
	}
	n, err := r.Allocations.CountByEa(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.NewValidationError(
			"no se puede " + action + " esta EA: ya está utilizada en un apurement")
	}
	return ea, nil
}
