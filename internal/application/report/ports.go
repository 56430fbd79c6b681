package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// SaRow fila del exporte de SA.
type SaRow struct {
	Sa        *entity.SaDeclaration
	Remaining decimal.Decimal
}

// EaRow fila del exporte de EA: una por asignación. Allocation es nil si la EA no tiene apurements.
type EaRow struct {
	Ea         *entity.EaDeclaration
	Allocation *apurement.EaAllocation
}

// StatementLine línea del estado de apurement de una SA, con el acumulado tras la asignación.
type StatementLine struct {
	Allocation *entity.Allocation
	Cumulative decimal.Decimal
}

// Statement estado de apurement de una SA (documento PDF).
type Statement struct {
	Sa          *entity.SaDeclaration
	Remaining   decimal.Decimal
	Lines       []StatementLine
	GeneratedAt time.Time
}

// SpreadsheetWriter genera los libros xlsx de exporte.
type SpreadsheetWriter interface {
	SaWorkbook(ctx context.Context, rows []SaRow) ([]byte, error)
	EaWorkbook(ctx context.Context, rows []EaRow) ([]byte, error)
}

// StatementRenderer genera el PDF del estado de apurement de una SA.
type StatementRenderer interface {
	SaStatement(ctx context.Context, st Statement) ([]byte, error)
}
