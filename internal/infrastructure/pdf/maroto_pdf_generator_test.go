package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatQty_Frances(t *testing.T) {
	got := formatQty(dec("1234.5"))
	assert.True(t, strings.HasSuffix(got, ",500"), got)
	assert.Equal(t, "1234,500", strings.ReplaceAll(got, " ", ""))
	assert.Equal(t, "0,000", formatQty(decimal.Zero))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "5,00 %", formatPercent(dec("5")))
}

func TestSaStatement_GeneraPDF(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	sa := &entity.SaDeclaration{
		Number: "SA250001", RegimeCode: "532", DeclarationDate: day, DueDate: day.AddDate(0, 6, 0),
		Status: entity.SaStatusPartiallyApured, QuantityInitial: dec("100"), QuantityApured: dec("10.526"),
		QuantityUnit: entity.QuantityUnitTonne, Family: &entity.Family{Label: "Fil machine", ScrapPercent: dec("5")},
	}
	st := report.Statement{
		Sa:        sa,
		Remaining: dec("89.474"),
		Lines: []report.StatementLine{{
			Allocation: &entity.Allocation{Quantity: dec("10.526"), CreatedAt: day,
				Ea: &entity.EaDeclaration{Number: "EA250001", CustomerName: "ACME"}},
			Cumulative: dec("10.526"),
		}},
		GeneratedAt: day,
	}
	out, err := NewMarotoPDFGenerator("test").SaStatement(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSaStatement_SinAsignaciones(t *testing.T) {
	sa := &entity.SaDeclaration{Number: "SA250002", Status: entity.SaStatusOpen,
		QuantityInitial: dec("5"), QuantityUnit: entity.QuantityUnitTonne}
	out, err := NewMarotoPDFGenerator("").SaStatement(context.Background(), report.Statement{Sa: sa, Remaining: dec("5")})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = NewMarotoPDFGenerator("").SaStatement(context.Background(), report.Statement{})
	assert.Error(t, err)
}
