package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func readRows(t *testing.T, content []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestSaWorkbook(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	sa := &entity.SaDeclaration{
		Number: "SA250001", RegimeCode: "532", DeclarationDate: day, DueDate: day.AddDate(0, 6, 0),
		Status: entity.SaStatusPartiallyApured, QuantityInitial: dec("100"), QuantityApured: dec("10.526"),
		QuantityUnit: entity.QuantityUnitTonne, Family: &entity.Family{Label: "Rond à béton", ScrapPercent: dec("5")},
	}
	content, err := NewWriter().SaWorkbook(context.Background(), []report.SaRow{{Sa: sa, Remaining: dec("89.474")}})
	require.NoError(t, err)

	rows := readRows(t, content, sheetSa)
	require.Len(t, rows, 2)
	assert.Equal(t, "N° SA", rows[0][0])
	assert.Equal(t, "SA250001", rows[1][0])
	assert.Equal(t, "2025-09-01", rows[1][3])
	assert.Equal(t, "Rond à béton", rows[1][6])
	assert.Equal(t, "89.474", rows[1][10])
}

func TestEaWorkbook_UnaFilaPorAsignacion(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	ea := &entity.EaDeclaration{Number: "EA250001", ExportDate: day, CustomerName: "ACME",
		TotalQuantity: dec("20"), QuantityUnit: "TONNE"}
	empty := &entity.EaDeclaration{Number: "EA250002", ExportDate: day, CustomerName: "ACME",
		TotalQuantity: dec("5"), QuantityUnit: "TONNE"}
	alloc := func(sa string, q string, mismatch bool) *apurement.EaAllocation {
		return &apurement.EaAllocation{
			Allocation:     &entity.Allocation{Quantity: dec(q), Sa: &entity.SaDeclaration{Number: sa}},
			ScrapQuantity:  dec("0.5"),
			FamilyMismatch: mismatch,
		}
	}
	rows := []report.EaRow{
		{Ea: ea, Allocation: alloc("SA250001", "10.526", false)},
		{Ea: ea, Allocation: alloc("SA250002", "10", true)},
		{Ea: empty},
	}
	content, err := NewWriter().EaWorkbook(context.Background(), rows)
	require.NoError(t, err)

	got := readRows(t, content, sheetEa)
	require.Len(t, got, 4)
	assert.Equal(t, "SA250001", got[1][7])
	assert.Equal(t, "10.526", got[1][8])
	assert.Equal(t, "OUI", got[2][10])
	assert.Equal(t, "EA250002", got[3][0])
	assert.Len(t, got[3], 7, "sin asignación no hay columnas SA")
}
