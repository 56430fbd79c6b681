package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAllocationRequest entrada para asignar una cantidad EA a una SA.
// Quantity es la cantidad EA; la cantidad consumida en la SA la calcula el servidor.
type CreateAllocationRequest struct {
	SaID     string          `json:"sa_id" validate:"required"`
	EaID     string          `json:"ea_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationResponse asignación registrada con el estado resultante de la SA.
type AllocationResponse struct {
	ID          string          `json:"id"`
	SaID        string          `json:"sa_id"`
	EaID        string          `json:"ea_id"`
	Quantity    decimal.Decimal `json:"quantity"` // consumida en la SA
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	SaStatus    string          `json:"sa_status,omitempty"`
	SaApured    decimal.Decimal `json:"sa_quantity_apured"`
	SaRemaining decimal.Decimal `json:"sa_remaining"`
}

// EaRef datos de la EA embebidos en el listado por SA.
type EaRef struct {
	ID            string          `json:"id"`
	EaNumber      string          `json:"ea_number"`
	ExportDate    string          `json:"export_date"`
	CustomerName  string          `json:"customer_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	QuantityUnit  string          `json:"quantity_unit"`
}

// SaAllocationResponse asignación vista desde la SA.
type SaAllocationResponse struct {
	ID        string          `json:"id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	Ea        *EaRef          `json:"ea"`
}

// SaRef datos de la SA embebidos en el listado por EA.
type SaRef struct {
	ID              string          `json:"id"`
	SaNumber        string          `json:"sa_number"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	DueDate         string          `json:"due_date"`
	QuantityInitial decimal.Decimal `json:"quantity_initial"`
	QuantityApured  decimal.Decimal `json:"quantity_apured"`
	QuantityUnit    string          `json:"quantity_unit"`
	Description     string          `json:"description,omitempty"`
	FamilyID        string          `json:"family_id,omitempty"`
	FamilyName      string          `json:"family_name,omitempty"`
}

// EaAllocationResponse asignación vista desde la EA con la merma implicada.
type EaAllocationResponse struct {
	ID             string          `json:"id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ScrapQuantity  decimal.Decimal `json:"scrap_quantity"`
	FamilyMismatch bool            `json:"family_mismatch"`
	CreatedAt      time.Time       `json:"created_at"`
	Sa             *SaRef          `json:"sa"`
}

// SaAllocationListResponse listado de asignaciones de una SA.
type SaAllocationListResponse struct {
	Items []SaAllocationResponse `json:"items"`
}

// EaAllocationListResponse listado de asignaciones de una EA.
type EaAllocationListResponse struct {
	Items []EaAllocationResponse `json:"items"`
}
