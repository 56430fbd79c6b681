package apurement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// DeriveStatus calcula el estado de una SA a partir del total asignado y la cuota inicial.
//   - total <= 0                 → OPEN
//   - total + 1e-4 < inicial     → PARTIALLY_APURED
//   - en otro caso               → FULLY_APURED
func DeriveStatus(totalAllocated, quantityInitial decimal.Decimal) string {
	switch {
	case !totalAllocated.IsPositive():
		return entity.SaStatusOpen
	case totalAllocated.Add(Epsilon).LessThan(quantityInitial):
		return entity.SaStatusPartiallyApured
	default:
		return entity.SaStatusFullyApured
	}
}

// CheckQuota verifica que currentAllocated + consumed no supere la cuota (con tolerancia).
// Devuelve el nuevo total o un ValidationError con ambos números.
func CheckQuota(currentAllocated, consumed, quantityInitial decimal.Decimal) (decimal.Decimal, error) {
	newTotal := currentAllocated.Add(consumed)
	if newTotal.GreaterThan(quantityInitial.Add(Epsilon)) {
		return newTotal, domain.NewValidationError(fmt.Sprintf(
			"la cantidad asignada (%s) excede la cantidad inicial de la SA (%s)",
			newTotal.String(), quantityInitial.String()))
	}
	return newTotal, nil
}

// Remaining cuota SA restante: round3(max(inicial - round3(apured), 0)).
func Remaining(quantityInitial, quantityApured decimal.Decimal) decimal.Decimal {
	rest := quantityInitial.Sub(Round3(quantityApured))
	if rest.IsNegative() {
		return decimal.Zero
	}
	return Round3(rest)
}

// IsEligible indica si una SA aún admite asignaciones según su estado.
func IsEligible(status string) bool {
	return status == entity.SaStatusOpen || status == entity.SaStatusPartiallyApured
}
