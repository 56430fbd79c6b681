package dto

import "github.com/shopspring/decimal"

// FamilyResponse familia de producto con su porcentaje de merma.
type FamilyResponse struct {
	ID           string          `json:"id"`
	Label        string          `json:"label"`
	ScrapPercent decimal.Decimal `json:"scrap_percent"`
	IsActive     bool            `json:"is_active"`
}
