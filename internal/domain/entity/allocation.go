package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation es una entrada del ledger de apurement: une una SA con una EA.
// Quantity está expresada en la unidad de la SA (materia prima consumida), no en la
// cantidad EA exportada. Nunca se actualiza ni se elimina.
type Allocation struct {
	ID        string
	SaID      string
	EaID      string
	Quantity  decimal.Decimal
	CreatedBy string
	CreatedAt time.Time

	// Relaciones cargadas por los listados (pueden ser nil).
	Sa *SaDeclaration
	Ea *EaDeclaration
}
