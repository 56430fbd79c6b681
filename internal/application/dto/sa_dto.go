package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de las declaraciones (yyyy-mm-dd).
const DateLayout = "2006-01-02"

// CreateSaRequest entrada para crear una SA. sa_number acepta "250001" o "SA250001".
type CreateSaRequest struct {
	SaNumber            string           `json:"sa_number" validate:"required"`
	RegimeCode          string           `json:"regime_code" validate:"omitempty,max=10"`
	DeclarationDate     string           `json:"declaration_date" validate:"required,datetime=2006-01-02"`
	DueDate             string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	QuantityInvoicedTon decimal.Decimal  `json:"quantity_invoiced_ton"`
	SupplierName        string           `json:"supplier_name" validate:"max=200"`
	FamilyID            string           `json:"family_id"`
	InvoiceAmount       *decimal.Decimal `json:"invoice_amount"`
	CurrencyCode        string           `json:"currency_code" validate:"omitempty,len=3,alpha"`
	FxRate              *decimal.Decimal `json:"fx_rate"`
	Description         string           `json:"description" validate:"max=500"`
}

// UpdateSaRequest campos modificables de una SA (solo si no tiene apurements).
type UpdateSaRequest struct {
	SaNumber        *string `json:"sa_number"`
	DeclarationDate *string `json:"declaration_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate         *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
}

// SaResponse salida de una SA.
type SaResponse struct {
	ID               string           `json:"id"`
	SaNumber         string           `json:"sa_number"`
	RegimeCode       string           `json:"regime_code"`
	DeclarationDate  string           `json:"declaration_date"`
	DueDate          string           `json:"due_date"`
	Status           string           `json:"status"`
	QuantityInitial  decimal.Decimal  `json:"quantity_initial"`
	QuantityUnit     string           `json:"quantity_unit"`
	QuantityApured   decimal.Decimal  `json:"quantity_apured"`
	SaRemaining      decimal.Decimal  `json:"sa_remaining"`
	ScrapQuantityTon *decimal.Decimal `json:"scrap_quantity_ton"`
	InvoiceAmount    *decimal.Decimal `json:"invoice_amount"`
	CurrencyCode     string           `json:"currency_code,omitempty"`
	FxRate           *decimal.Decimal `json:"fx_rate"`
	AmountDS         *decimal.Decimal `json:"amount_ds"`
	SupplierName     string           `json:"supplier_name,omitempty"`
	FamilyID         string           `json:"family_id,omitempty"`
	FamilyLabel      string           `json:"family_label,omitempty"`
	ScrapPercent     *decimal.Decimal `json:"scrap_percent"`
	Description      string           `json:"description,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedBy        string           `json:"updated_by,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SaListResponse lista de SA.
type SaListResponse struct {
	Items []SaResponse `json:"items"`
}

// EligibleSaResponse SA con cuota restante para asignar.
// RemainingQuantity es la cantidad EA indicativa (saRemaining / CoefficientUsed).
type EligibleSaResponse struct {
	ID                string          `json:"id"`
	SaNumber          string          `json:"sa_number"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	DueDate           string          `json:"due_date"`
	Status            string          `json:"status"`
	QuantityInitial   decimal.Decimal `json:"quantity_initial"`
	QuantityApured    decimal.Decimal `json:"quantity_apured"`
	SaRemaining       decimal.Decimal `json:"sa_remaining"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	QuantityUnit      string          `json:"quantity_unit"`
	FamilyID          string          `json:"family_id,omitempty"`
	ScrapPercent      decimal.Decimal `json:"scrap_percent"`
	CoefficientUsed   decimal.Decimal `json:"coefficient_used"`
}

// EligibleSaListResponse lista de SA elegibles (vencimiento asc).
type EligibleSaListResponse struct {
	Items []EligibleSaResponse `json:"items"`
}
