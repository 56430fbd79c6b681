package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinkedSaRequest asignación incluida en la creación de una EA (cantidad EA).
type LinkedSaRequest struct {
	SaID     string          `json:"sa_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateEaRequest entrada para crear una EA. ea_number acepta "250001" o "EA250001".
// LinkedSaID/LinkedQuantity es la forma antigua de una sola SA; se suma a LinkedSas.
type CreateEaRequest struct {
	EaNumber           string            `json:"ea_number" validate:"required"`
	ExportDate         string            `json:"export_date" validate:"required,datetime=2006-01-02"`
	CustomerName       string            `json:"customer_name" validate:"required,max=200"`
	DestinationCountry string            `json:"destination_country" validate:"max=100"`
	ProductRef         string            `json:"product_ref" validate:"max=100"`
	ProductDesc        string            `json:"product_desc" validate:"max=500"`
	TotalQuantity      decimal.Decimal   `json:"total_quantity"`
	QuantityUnit       string            `json:"quantity_unit" validate:"required,max=20"`
	FamilyID           string            `json:"family_id"`
	RegimeCode         string            `json:"regime_code" validate:"omitempty,max=10"`
	ScrapPercent       *decimal.Decimal  `json:"scrap_percent"`
	LinkedSaID         string            `json:"linked_sa_id"`
	LinkedQuantity     *decimal.Decimal  `json:"linked_quantity"`
	LinkedSas          []LinkedSaRequest `json:"linked_sas" validate:"omitempty,dive"`
}

// UpdateEaRequest campos modificables de una EA (solo si no tiene apurements).
type UpdateEaRequest struct {
	EaNumber           *string          `json:"ea_number"`
	ExportDate         *string          `json:"export_date" validate:"omitempty,datetime=2006-01-02"`
	CustomerName       *string          `json:"customer_name" validate:"omitempty,min=1,max=200"`
	DestinationCountry *string          `json:"destination_country" validate:"omitempty,max=100"`
	ProductRef         *string          `json:"product_ref" validate:"omitempty,max=100"`
	ProductDesc        *string          `json:"product_desc" validate:"omitempty,max=500"`
	TotalQuantity      *decimal.Decimal `json:"total_quantity"`
	QuantityUnit       *string          `json:"quantity_unit" validate:"omitempty,min=1,max=20"`
	RegimeCode         *string          `json:"regime_code" validate:"omitempty,max=10"`
}

// EaResponse salida de una EA, con sus apurements cuando se listan.
type EaResponse struct {
	ID                 string                 `json:"id"`
	EaNumber           string                 `json:"ea_number"`
	RegimeCode         string                 `json:"regime_code"`
	ExportDate         string                 `json:"export_date"`
	Status             string                 `json:"status"`
	CustomerName       string                 `json:"customer_name"`
	DestinationCountry string                 `json:"destination_country,omitempty"`
	ProductRef         string                 `json:"product_ref,omitempty"`
	ProductDesc        string                 `json:"product_desc,omitempty"`
	TotalQuantity      decimal.Decimal        `json:"total_quantity"`
	QuantityUnit       string                 `json:"quantity_unit"`
	FamilyID           string                 `json:"family_id,omitempty"`
	ScrapPercent       *decimal.Decimal       `json:"scrap_percent"`
	ScrapQuantity      *decimal.Decimal       `json:"scrap_quantity"`
	CreatedBy          string                 `json:"created_by"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedBy          string                 `json:"updated_by,omitempty"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Allocations        []EaAllocationResponse `json:"allocations,omitempty"`
}

// EaListResponse lista de EA.
type EaListResponse struct {
	Items []EaResponse `json:"items"`
}
