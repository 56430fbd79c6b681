package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/dto"
	calc "github.com/jhoicas/apurement-api/internal/domain/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

func toFamilyResponse(f *entity.Family) dto.FamilyResponse {
	return dto.FamilyResponse{
		ID:           f.ID,
		Label:        f.Label,
		ScrapPercent: f.ScrapPercent,
		IsActive:     f.IsActive,
	}
}

func toSaResponse(sa *entity.SaDeclaration) *dto.SaResponse {
	if sa == nil {
		return nil
	}
	out := &dto.SaResponse{
		ID:               sa.ID,
		SaNumber:         sa.Number,
		RegimeCode:       sa.RegimeCode,
		DeclarationDate:  formatDate(sa.DeclarationDate),
		DueDate:          formatDate(sa.DueDate),
		Status:           sa.Status,
		QuantityInitial:  sa.QuantityInitial,
		QuantityUnit:     sa.QuantityUnit,
		QuantityApured:   sa.QuantityApured,
		SaRemaining:      calc.Remaining(sa.QuantityInitial, sa.QuantityApured),
		ScrapQuantityTon: sa.ScrapQuantityTon,
		InvoiceAmount:    sa.InvoiceAmount,
		CurrencyCode:     sa.CurrencyCode,
		FxRate:           sa.FxRate,
		AmountDS:         sa.AmountDS,
		SupplierName:     sa.SupplierName,
		FamilyID:         sa.FamilyID,
		Description:      sa.Description,
		CreatedBy:        sa.CreatedBy,
		CreatedAt:        sa.CreatedAt,
		UpdatedBy:        sa.UpdatedBy,
		UpdatedAt:        sa.UpdatedAt,
	}
	if sa.Family != nil {
		p := sa.Family.ScrapPercent
		out.FamilyLabel = sa.Family.Label
		out.ScrapPercent = &p
	}
	return out
}

func toEligibleResponse(e apurement.EligibleSa) dto.EligibleSaResponse {
	out := dto.EligibleSaResponse{
		ID:                e.Sa.ID,
		SaNumber:          e.Sa.Number,
		SupplierName:      e.Sa.SupplierName,
		DueDate:           formatDate(e.Sa.DueDate),
		Status:            e.Sa.Status,
		QuantityInitial:   e.Sa.QuantityInitial,
		QuantityApured:    calc.Round3(e.Sa.QuantityApured),
		SaRemaining:       e.SaRemaining,
		RemainingQuantity: e.EaRemaining,
		QuantityUnit:      e.Sa.QuantityUnit,
		FamilyID:          e.Sa.FamilyID,
		ScrapPercent:      decimal.Zero,
		CoefficientUsed:   e.CoefficientUsed,
	}
	if e.Sa.Family != nil {
		out.ScrapPercent = e.Sa.Family.ScrapPercent
	}
	return out
}

func toEaResponse(ea *entity.EaDeclaration) *dto.EaResponse {
	if ea == nil {
		return nil
	}
	return &dto.EaResponse{
		ID:                 ea.ID,
		EaNumber:           ea.Number,
		RegimeCode:         ea.RegimeCode,
		ExportDate:         formatDate(ea.ExportDate),
		Status:             ea.Status,
		CustomerName:       ea.CustomerName,
		DestinationCountry: ea.DestinationCountry,
		ProductRef:         ea.ProductRef,
		ProductDesc:        ea.ProductDesc,
		TotalQuantity:      ea.TotalQuantity,
		QuantityUnit:       ea.QuantityUnit,
		FamilyID:           ea.FamilyID,
		ScrapPercent:       ea.ScrapPercent,
		ScrapQuantity:      ea.ScrapQuantity,
		CreatedBy:          ea.CreatedBy,
		CreatedAt:          ea.CreatedAt,
		UpdatedBy:          ea.UpdatedBy,
		UpdatedAt:          ea.UpdatedAt,
	}
}

func toAllocationResponse(a *entity.Allocation) *dto.AllocationResponse {
	out := &dto.AllocationResponse{
		ID:        a.ID,
		SaID:      a.SaID,
		EaID:      a.EaID,
		Quantity:  a.Quantity,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
	if a.Sa != nil {
		out.SaStatus = a.Sa.Status
		out.SaApured = a.Sa.QuantityApured
		out.SaRemaining = calc.Remaining(a.Sa.QuantityInitial, a.Sa.QuantityApured)
	}
	return out
}

func toSaAllocationResponse(a *entity.Allocation) dto.SaAllocationResponse {
	out := dto.SaAllocationResponse{ID: a.ID, Quantity: a.Quantity, CreatedAt: a.CreatedAt}
	if a.Ea != nil {
		out.Ea = &dto.EaRef{
			ID:            a.Ea.ID,
			EaNumber:      a.Ea.Number,
			ExportDate:    formatDate(a.Ea.ExportDate),
			CustomerName:  a.Ea.CustomerName,
			TotalQuantity: a.Ea.TotalQuantity,
			QuantityUnit:  a.Ea.QuantityUnit,
		}
	}
	return out
}

func toEaAllocationResponse(v apurement.EaAllocation) dto.EaAllocationResponse {
	out := dto.EaAllocationResponse{
		ID:             v.ID,
		Quantity:       v.Quantity,
		ScrapQuantity:  v.ScrapQuantity,
		FamilyMismatch: v.FamilyMismatch,
		CreatedAt:      v.CreatedAt,
	}
	if sa := v.Sa; sa != nil {
		out.Sa = &dto.SaRef{
			ID:              sa.ID,
			SaNumber:        sa.Number,
			SupplierName:    sa.SupplierName,
			DueDate:         formatDate(sa.DueDate),
			QuantityInitial: sa.QuantityInitial,
			QuantityApured:  sa.QuantityApured,
			QuantityUnit:    sa.QuantityUnit,
			Description:     sa.Description,
			FamilyID:        sa.FamilyID,
		}
		if sa.Family != nil {
			out.Sa.FamilyName = sa.Family.Label
		}
	}
	return out
}
