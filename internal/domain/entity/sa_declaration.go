package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de apurement de una SA.
const (
	SaStatusOpen            = "OPEN"
	SaStatusPartiallyApured = "PARTIALLY_APURED"
	SaStatusFullyApured     = "FULLY_APURED"
)

// Valores por defecto de una SA.
const (
	SaDefaultRegimeCode = "532"
	QuantityUnitTonne   = "TONNE"
)

// SaDeclaration representa una declaración de admisión temporal (importación bajo fianza).
// QuantityApured y Status son una caché materializada del ledger de asignaciones:
// solo el procedimiento de agregación los escribe.
type SaDeclaration struct {
	ID               string
	Number           string // "SA250001"
	RegimeCode       string
	DeclarationDate  time.Time
	DueDate          time.Time
	Status           string
	QuantityInitial  decimal.Decimal // cuota total en QuantityUnit
	QuantityUnit     string
	QuantityApured   decimal.Decimal
	ScrapQuantityTon *decimal.Decimal // QuantityInitial * p / 100, si hay familia
	InvoiceAmount    *decimal.Decimal
	CurrencyCode     string
	FxRate           *decimal.Decimal
	AmountDS         *decimal.Decimal // InvoiceAmount * FxRate
	SupplierName     string
	FamilyID         string // vacío si no tiene familia
	Family           *Family
	Description      string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedBy        string
	UpdatedAt        time.Time
}
