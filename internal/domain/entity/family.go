package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Family representa una familia de producto con su porcentaje de merma (droit de déchet).
// Datos de referencia: el motor de apurement solo los lee.
type Family struct {
	ID           string
	Label        string          // ej: "Rond à béton", "Fil machine"
	ScrapPercent decimal.Decimal // 5.00 para 5 %
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
