// Package apurement contiene la aritmética de dominio del apurement SA/EA:
// conversión por coeficiente de merma, redondeo y derivación del estado de una SA.
// No depende de infraestructura.
package apurement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// Places número de decimales de toda cantidad derivada.
const Places = 3

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// Epsilon tolerancia de comparación contra la cuota (1e-4 en la unidad de referencia).
	Epsilon = decimal.New(1, -4)
)

// Round3 redondea a 3 decimales, mitad lejos de cero.
func Round3(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ScrapRate devuelve t = p / 100 a partir del porcentaje de la familia.
// Sin familia t = 0.
func ScrapRate(family *entity.Family) decimal.Decimal {
	if family == nil {
		return decimal.Zero
	}
	return family.ScrapPercent.Div(hundred)
}

// ValidateRate rechaza t >= 1 (o negativo): error de configuración de la familia.
func ValidateRate(t decimal.Decimal) error {
	if t.GreaterThanOrEqual(one) || t.IsNegative() {
		return domain.NewValidationError(fmt.Sprintf(
			"porcentaje de merma inválido para la familia de la SA (%s %%)", t.Mul(hundred).String()))
	}
	return nil
}

// ConsumedOnSa convierte una cantidad EA en la cantidad SA consumida:
// round3(eaQty / (1 - t)). Requiere t < 1.
func ConsumedOnSa(eaQty, t decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateRate(t); err != nil {
		return decimal.Zero, err
	}
	return Round3(eaQty.Div(one.Sub(t))), nil
}

// ScrapQuantity merma implicada por una cantidad EA (solo visualización):
// round3(eaQty * t / (1 - t)). Devuelve cero si t <= 0 o t >= 1.
func ScrapQuantity(eaQty, t decimal.Decimal) decimal.Decimal {
	if !t.IsPositive() || t.GreaterThanOrEqual(one) {
		return decimal.Zero
	}
	return Round3(eaQty.Mul(t).Div(one.Sub(t)))
}

// ScrapOfConsumed merma contenida en una cantidad ya consumida en la SA:
// round3(consumed * t), igual a consumed - eaQty. Devuelve cero si t <= 0 o t >= 1.
func ScrapOfConsumed(consumed, t decimal.Decimal) decimal.Decimal {
	if !t.IsPositive() || t.GreaterThanOrEqual(one) {
		return decimal.Zero
	}
	return Round3(consumed.Mul(t))
}

// EligibilityCoef coeficiente usado por la proyección de SA elegibles: 1 + t.
//
// Diverge de 1/(1-t) usado al asignar (a t=0.05 la diferencia es ~0.3 %). La proyección
// es solo indicativa; el límite real lo impone CreateAllocation.
func EligibilityCoef(t decimal.Decimal) decimal.Decimal {
	return one.Add(t)
}

// EaRemaining cantidad EA máxima sugerida para un remanente SA: round3(saRemaining / (1 + t)).
func EaRemaining(saRemaining, t decimal.Decimal) decimal.Decimal {
	coef := EligibilityCoef(t)
	if !coef.IsPositive() {
		return saRemaining
	}
	return Round3(saRemaining.Div(coef))
}

// SaScrapAllowance derecho de merma de una SA: round3(qty * p / 100).
func SaScrapAllowance(qty, scrapPercent decimal.Decimal) decimal.Decimal {
	return Round3(qty.Mul(scrapPercent).Div(hundred))
}
