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

// SaUseCase casos de uso de declaraciones de admisión temporal (SA).
type SaUseCase struct {
	engine *apurement.Service
	reads  apurement.Repos
	log    *logger.Logger
}

// NewSaUseCase construye el caso de uso.
func NewSaUseCase(engine *apurement.Service, reads apurement.Repos, log *logger.Logger) *SaUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaUseCase{engine: engine, reads: reads, log: log.Named("sa")}
}

// Create registra una SA: número normalizado, cuota inicial > 0, derecho de merma según familia
// y monto DS = monto factura * tasa de cambio.
func (uc *SaUseCase) Create(ctx context.Context, userID string, in dto.CreateSaRequest) (*dto.SaResponse, error) {
	number, err := NormalizeNumber("SA", in.SaNumber)
	if err != nil {
		return nil, err
	}
	if !in.QuantityInvoicedTon.IsPositive() {
		return nil, domain.NewValidationError("la cantidad facturada (toneladas) debe ser un número positivo")
	}
	declDate, err := parseDate("declaration_date", in.DeclarationDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}

	var family *entity.Family
	var scrapQty *decimal.Decimal
	if in.FamilyID != "" {
		family, err = uc.reads.Families.GetByID(ctx, in.FamilyID)
		if err != nil {
			return nil, err
		}
		if family == nil {
			return nil, domain.NewNotFoundError("Familia", in.FamilyID)
		}
		q := calc.SaScrapAllowance(in.QuantityInvoicedTon, family.ScrapPercent)
		scrapQty = &q
	}

	var amountDS *decimal.Decimal
	if in.InvoiceAmount != nil && in.FxRate != nil {
		a := calc.Round3(in.InvoiceAmount.Mul(*in.FxRate))
		amountDS = &a
	}

	regime := in.RegimeCode
	if regime == "" {
		regime = entity.SaDefaultRegimeCode
	}

	existing, err := uc.reads.Sa.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.engine.Now()
	sa := &entity.SaDeclaration{
		ID:               apurement.NewID(),
		Number:           number,
		RegimeCode:       regime,
		DeclarationDate:  declDate,
		DueDate:          dueDate,
		Status:           entity.SaStatusOpen,
		QuantityInitial:  in.QuantityInvoicedTon,
		QuantityUnit:     entity.QuantityUnitTonne,
		QuantityApured:   decimal.Zero,
		ScrapQuantityTon: scrapQty,
		InvoiceAmount:    in.InvoiceAmount,
		CurrencyCode:     in.CurrencyCode,
		FxRate:           in.FxRate,
		AmountDS:         amountDS,
		SupplierName:     in.SupplierName,
		FamilyID:         in.FamilyID,
		Description:      in.Description,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.reads.Sa.Create(ctx, sa); err != nil {
		return nil, err
	}
	sa.Family = family
	uc.log.Info().Str("sa_id", sa.ID).Str("number", sa.Number).
		Str("quantity_initial", sa.QuantityInitial.String()).Msg("SA creada")
	return toSaResponse(sa), nil
}

// GetByID obtiene una SA con su familia.
func (uc *SaUseCase) GetByID(ctx context.Context, id string) (*dto.SaResponse, error) {
	sa, err := uc.reads.Sa.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, domain.NewNotFoundError("SA", id)
	}
	return toSaResponse(sa), nil
}

// List lista las SA (fecha de declaración desc, número asc).
func (uc *SaUseCase) List(ctx context.Context, filter repository.SaFilter) (*dto.SaListResponse, error) {
	list, err := uc.reads.Sa.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaResponse, 0, len(list))
	for _, sa := range list {
		items = append(items, *toSaResponse(sa))
	}
	return &dto.SaListResponse{Items: items}, nil
}

// Eligible proyección de SA con cuota restante (vencimiento asc). familyID vacío = todas.
func (uc *SaUseCase) Eligible(ctx context.Context, familyID string) (*dto.EligibleSaListResponse, error) {
	list, err := uc.engine.EligibleSas(ctx, familyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EligibleSaResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEligibleResponse(e))
	}
	return &dto.EligibleSaListResponse{Items: items}, nil
}

// Update modifica número, fechas o descripción. Rechazado si la SA ya tiene apurements.
func (uc *SaUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateSaRequest) (*dto.SaResponse, error) {
	var out *entity.SaDeclaration
	err := uc.engine.Write(ctx, []string{apurement.SaLockKey(id)}, func(r apurement.Repos) error {
		sa, err := lockUnallocatedSa(ctx, r, id, "modificar")
		if err != nil {
			return err
		}
		if in.SaNumber != nil {
			number, err := NormalizeNumber("SA", *in.SaNumber)
			if err != nil {
				return err
			}
			if number != sa.Number {
				other, err := r.Sa.GetByNumber(ctx, number)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.ErrDuplicate
				}
			}
			sa.Number = number
		}
		if in.DeclarationDate != nil {
			d, err := parseDate("declaration_date", *in.DeclarationDate)
			if err != nil {
				return err
			}
			sa.DeclarationDate = d
		}
		if in.DueDate != nil {
			d, err := parseDate("due_date", *in.DueDate)
			if err != nil {
				return err
			}
			sa.DueDate = d
		}
		if in.Description != nil {
			sa.Description = *in.Description
		}
		sa.UpdatedBy = userID
		sa.UpdatedAt = uc.engine.Now()
		if err := r.Sa.Update(ctx, sa); err != nil {
			return err
		}
		out = sa
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaResponse(out), nil
}

// Delete elimina una SA sin apurements.
func (uc *SaUseCase) Delete(ctx context.Context, id string) error {
	err := uc.engine.Write(ctx, []string{apurement.SaLockKey(id)}, func(r apurement.Repos) error {
		if _, err := lockUnallocatedSa(ctx, r, id, "eliminar"); err != nil {
			return err
		}
		return r.Sa.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("sa_id", id).Msg("SA eliminada")
	return nil
}

// lockUnallocatedSa bloquea la SA y verifica que ninguna asignación la referencie.
func lockUnallocatedSa(ctx context.Context, r apurement.Repos, id, action string) (*entity.SaDeclaration, error) {
	sa, err := r.Sa.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, domain.NewNotFoundError("SA", id)
	}
	n, err := r.Allocations.CountBySa(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.NewValidationError(
			"no se puede " + action + " esta SA: ya está utilizada en un apurement")
	}
	return sa, nil
}
