package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/infrastructure/lock"
	"github.com/jhoicas/apurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeDocs captura lo que recibe cada generador.
type fakeDocs struct {
	saRows    []report.SaRow
	eaRows    []report.EaRow
	statement report.Statement
}

func (f *fakeDocs) SaWorkbook(_ context.Context, rows []report.SaRow) ([]byte, error) {
	f.saRows = rows
	return []byte("xlsx"), nil
}

func (f *fakeDocs) EaWorkbook(_ context.Context, rows []report.EaRow) ([]byte, error) {
	f.eaRows = rows
	return []byte("xlsx"), nil
}

func (f *fakeDocs) SaStatement(_ context.Context, st report.Statement) ([]byte, error) {
	f.statement = st
	return []byte("%PDF"), nil
}

func setup(t *testing.T) (*report.UseCase, *apurement.Service, *fakeDocs) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	engine := apurement.NewService(store, r, lock.NewLocal(), logger.Nop(), 3)
	engine.SetClock(func() time.Time { return time.Date(2025, 5, 2, 10, 30, 0, 0, time.UTC) })

	require.NoError(t, r.Families.Upsert(ctx, &entity.Family{ID: "f5", Label: "Rond", ScrapPercent: dec("5"), IsActive: true}))
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Sa.Create(ctx, &entity.SaDeclaration{ID: "sa1", Number: "SA250001", Status: entity.SaStatusOpen,
		QuantityInitial: dec("100"), FamilyID: "f5", DeclarationDate: day, DueDate: day.AddDate(0, 6, 0)}))
	for _, ea := range []*entity.EaDeclaration{
		{ID: "ea1", Number: "EA250001", CustomerName: "ACME", Status: entity.EaStatusSubmitted, TotalQuantity: dec("20"), ExportDate: day},
		{ID: "ea2", Number: "EA250002", CustomerName: "Otro", Status: entity.EaStatusSubmitted, TotalQuantity: dec("5"), ExportDate: day},
	} {
		require.NoError(t, r.Ea.Create(ctx, ea))
	}
	docs := &fakeDocs{}
	return report.NewUseCase(engine, r, docs, docs), engine, docs
}

func TestExportSa(t *testing.T) {
	uc, _, docs := setup(t)
	f, err := uc.ExportSa(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "export_sa_20250502_1030.xlsx", f.Name)
	assert.Equal(t, report.ContentTypeXLSX, f.ContentType)
	require.Len(t, docs.saRows, 1)
	assert.Equal(t, "100", docs.saRows[0].Remaining.String())
}

func TestExportEa_UnaFilaPorAsignacionYFiltro(t *testing.T) {
	uc, engine, docs := setup(t)
	ctx := context.Background()
	for _, q := range []string{"10", "5"} {
		_, err := engine.CreateAllocation(ctx, apurement.CreateAllocationInput{SaID: "sa1", EaID: "ea1", Quantity: dec(q), UserID: "u"})
		require.NoError(t, err)
	}

	_, err := uc.ExportEa(ctx, "")
	require.NoError(t, err)
	require.Len(t, docs.eaRows, 3, "dos asignaciones de ea1 y ea2 sin asignaciones")

	_, err = uc.ExportEa(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, docs.eaRows, 2)
	assert.Equal(t, "10.526", docs.eaRows[0].Allocation.Quantity.String())
	assert.Equal(t, "0.526", docs.eaRows[0].Allocation.ScrapQuantity.String())
}

func TestSaStatement_Acumulado(t *testing.T) {
	uc, engine, docs := setup(t)
	ctx := context.Background()
	for _, q := range []string{"10", "5"} {
		_, err := engine.CreateAllocation(ctx, apurement.CreateAllocationInput{SaID: "sa1", EaID: "ea1", Quantity: dec(q), UserID: "u"})
		require.NoError(t, err)
	}
	f, err := uc.SaStatement(ctx, "sa1")
	require.NoError(t, err)
	assert.Equal(t, "statement_SA250001.pdf", f.Name)
	require.Len(t, docs.statement.Lines, 2)
	assert.Equal(t, "10.526", docs.statement.Lines[0].Cumulative.String())
	assert.Equal(t, "15.789", docs.statement.Lines[1].Cumulative.String())
	assert.Equal(t, "84.211", docs.statement.Remaining.String())

	_, err = uc.SaStatement(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
