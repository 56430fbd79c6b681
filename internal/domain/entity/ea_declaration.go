package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una EA.
const (
	EaStatusSubmitted = "SUBMITTED"
	EaStatusCancelled = "CANCELLED"
)

// EaDefaultRegimeCode régimen de exportación por defecto.
const EaDefaultRegimeCode = "362"

// EaDeclaration representa una declaración de exportación de producto terminado.
// FamilyID, ScrapPercent y ScrapQuantity son copias para visualización: el coeficiente
// autoritativo se lee de la familia de la SA al momento de asignar.
type EaDeclaration struct {
	ID                 string
	Number             string // "EA250001"
	RegimeCode         string
	ExportDate         time.Time
	Status             string
	CustomerName       string
	DestinationCountry string
	ProductRef         string
	ProductDesc        string
	TotalQuantity      decimal.Decimal
	QuantityUnit       string
	FamilyID           string
	ScrapPercent       *decimal.Decimal
	ScrapQuantity      *decimal.Decimal
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedBy          string
	UpdatedAt          time.Time
}
