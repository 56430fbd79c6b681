package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/application/usecase"
	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
	"github.com/jhoicas/apurement-api/internal/infrastructure/lock"
	"github.com/jhoicas/apurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

type env struct {
	store *memory.Store
	sa    *usecase.SaUseCase
	ea    *usecase.EaUseCase
	ap    *usecase.ApurementUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	engine := apurement.NewService(store, store.Repos(), lock.NewLocal(), logger.Nop(), 3)
	fam := usecase.NewFamilyUseCase(store.Repos().Families)
	require.NoError(t, fam.Import(context.Background(), []*entity.Family{
		{ID: "f5", Label: "Rond à béton", ScrapPercent: dec("5"), IsActive: true},
		{ID: "f8", Label: "Fil machine", ScrapPercent: dec("8"), IsActive: true},
	}))
	return &env{
		store: store,
		sa:    usecase.NewSaUseCase(engine, store.Repos(), logger.Nop()),
		ea:    usecase.NewEaUseCase(engine, store.Repos(), logger.Nop()),
		ap:    usecase.NewApurementUseCase(engine),
	}
}

func (e *env) createSa(t *testing.T, number, qty, familyID string) *dto.SaResponse {
	t.Helper()
	sa, err := e.sa.Create(context.Background(), "achat-1", dto.CreateSaRequest{
		SaNumber:            number,
		DeclarationDate:     "2025-01-15",
		DueDate:             "2025-07-15",
		QuantityInvoicedTon: dec(qty),
		FamilyID:            familyID,
	})
	require.NoError(t, err)
	return sa
}

func baseEa(number string) dto.CreateEaRequest {
	return dto.CreateEaRequest{
		EaNumber:      number,
		ExportDate:    "2025-02-01",
		CustomerName:  "Sonasid",
		TotalQuantity: dec("20"),
		QuantityUnit:  "TONNE",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Números de declaración
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"250001", "SA250001", true},
		{"SA250001", "SA250001", true},
		{" sa250001 ", "SA250001", true},
		{"25001", "", false},
		{"SA2500011", "", false},
		{"EA250001", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := usecase.NormalizeNumber("SA", tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SA
// ──────────────────────────────────────────────────────────────────────────────

func TestSaCreate_DerivaMermaYMontoDS(t *testing.T) {
	e := newEnv(t)
	sa, err := e.sa.Create(context.Background(), "achat-1", dto.CreateSaRequest{
		SaNumber:            "250001",
		DeclarationDate:     "2025-01-15",
		DueDate:             "2025-07-15",
		QuantityInvoicedTon: dec("123.456"),
		FamilyID:            "f5",
		InvoiceAmount:       decPtr("1000.5"),
		CurrencyCode:        "EUR",
		FxRate:              decPtr("10.8765"),
	})
	require.NoError(t, err)

	assert.Equal(t, "SA250001", sa.SaNumber)
	assert.Equal(t, entity.SaDefaultRegimeCode, sa.RegimeCode)
	assert.Equal(t, entity.SaStatusOpen, sa.Status)
	assert.Equal(t, entity.QuantityUnitTonne, sa.QuantityUnit)
	assert.True(t, sa.QuantityApured.IsZero())
	require.NotNil(t, sa.ScrapQuantityTon)
	assert.Equal(t, "6.173", sa.ScrapQuantityTon.String())
	require.NotNil(t, sa.AmountDS)
	assert.Equal(t, "10881.938", sa.AmountDS.String())
	assert.Equal(t, "Rond à béton", sa.FamilyLabel)
	assert.Equal(t, "2025-07-15", sa.DueDate)
}

func TestSaCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createSa(t, "250001", "100", "")

	_, err := e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: "250001", DeclarationDate: "2025-01-01", DueDate: "2025-06-01", QuantityInvoicedTon: dec("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: "250002", DeclarationDate: "2025-01-01", DueDate: "2025-06-01", QuantityInvoicedTon: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: "250002", DeclarationDate: "2025-01-01", DueDate: "2025-06-01", QuantityInvoicedTon: dec("1"), FamilyID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: "250002", DeclarationDate: "01/01/2025", DueDate: "2025-06-01", QuantityInvoicedTon: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaUpdateDelete_BloqueadosConApurement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa := e.createSa(t, "250001", "100", "")
	free := e.createSa(t, "250002", "100", "")
	ea, err := e.ea.Create(ctx, "exp-1", baseEa("250001"))
	require.NoError(t, err)
	_, err = e.ap.Create(ctx, "exp-1", dto.CreateAllocationRequest{SaID: sa.ID, EaID: ea.ID, Quantity: dec("10")})
	require.NoError(t, err)

	_, err = e.sa.Update(ctx, "achat-1", sa.ID, dto.UpdateSaRequest{Description: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, e.sa.Delete(ctx, sa.ID), domain.ErrInvalidInput)

	updated, err := e.sa.Update(ctx, "achat-1", free.ID, dto.UpdateSaRequest{
		SaNumber: strPtr("250009"), DueDate: strPtr("2025-12-31"), Description: strPtr("lote"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SA250009", updated.SaNumber)
	assert.Equal(t, "2025-12-31", updated.DueDate)
	assert.Equal(t, "achat-1", updated.UpdatedBy)

	_, err = e.sa.Update(ctx, "achat-1", free.ID, dto.UpdateSaRequest{SaNumber: strPtr("250001")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, e.sa.Delete(ctx, free.ID))
	_, err = e.sa.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaList_Orden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for _, n := range []string{"250003", "250001", "250002"} {
		_, err := e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: n, DeclarationDate: "2025-01-15", DueDate: "2025-07-15", QuantityInvoicedTon: dec("1")})
		require.NoError(t, err)
	}
	_, err := e.sa.Create(ctx, "u", dto.CreateSaRequest{SaNumber: "250009", DeclarationDate: "2025-03-01", DueDate: "2025-07-15", QuantityInvoicedTon: dec("1")})
	require.NoError(t, err)

	list, err := e.sa.List(ctx, repository.SaFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 4)
	got := []string{list.Items[0].SaNumber, list.Items[1].SaNumber, list.Items[2].SaNumber, list.Items[3].SaNumber}
	assert.Equal(t, []string{"SA250009", "SA250001", "SA250002", "SA250003"}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// EA
// ──────────────────────────────────────────────────────────────────────────────

func TestEaCreate_SinVinculos(t *testing.T) {
	e := newEnv(t)
	req := baseEa("ea250001")
	req.FamilyID = "f5"
	ea, err := e.ea.Create(context.Background(), "exp-1", req)
	require.NoError(t, err)

	assert.Equal(t, "EA250001", ea.EaNumber)
	assert.Equal(t, entity.EaDefaultRegimeCode, ea.RegimeCode)
	assert.Equal(t, entity.EaStatusSubmitted, ea.Status)
	require.NotNil(t, ea.ScrapPercent)
	assert.Equal(t, "5", ea.ScrapPercent.String())
	require.NotNil(t, ea.ScrapQuantity)
	// 20 * 0.05 / 0.95
	assert.Equal(t, "1.053", ea.ScrapQuantity.String())
	assert.Empty(t, ea.Allocations)
}

func TestEaCreate_ConVinculosAtomico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa1 := e.createSa(t, "250001", "100", "f5")
	sa2 := e.createSa(t, "250002", "10", "")

	req := baseEa("250001")
	req.LinkedSas = []dto.LinkedSaRequest{{SaID: sa1.ID, Quantity: dec("9.5")}}
	req.LinkedSaID = sa2.ID
	req.LinkedQuantity = decPtr("4")
	ea, err := e.ea.Create(ctx, "exp-1", req)
	require.NoError(t, err)

	// familia tomada de la primera SA vinculada
	assert.Equal(t, "f5", ea.FamilyID)
	require.Len(t, ea.Allocations, 2)

	got1, err := e.sa.GetByID(ctx, sa1.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", got1.QuantityApured.String())
	got2, err := e.sa.GetByID(ctx, sa2.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", got2.QuantityApured.String())
}

func TestEaCreate_FalloEnVinculoNoDejaNada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa1 := e.createSa(t, "250001", "100", "")
	sa2 := e.createSa(t, "250002", "5", "")

	req := baseEa("250001")
	req.LinkedSas = []dto.LinkedSaRequest{
		{SaID: sa1.ID, Quantity: dec("10")},
		{SaID: sa2.ID, Quantity: dec("6")}, // excede la cuota de sa2
	}
	_, err := e.ea.Create(ctx, "exp-1", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := e.ea.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	got1, err := e.sa.GetByID(ctx, sa1.ID)
	require.NoError(t, err)
	assert.True(t, got1.QuantityApured.IsZero())
	assert.Equal(t, entity.SaStatusOpen, got1.Status)
}

func TestEaCreate_MismaSaDosVecesSumaEnLaTx(t *testing.T) {
	e := newEnv(t)
	sa := e.createSa(t, "250001", "10", "")

	req := baseEa("250001")
	req.LinkedSas = []dto.LinkedSaRequest{
		{SaID: sa.ID, Quantity: dec("6")},
		{SaID: sa.ID, Quantity: dec("6")},
	}
	_, err := e.ea.Create(context.Background(), "exp-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEaCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := baseEa("250001")
	req.TotalQuantity = dec("0")
	_, err := e.ea.Create(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = baseEa("250001")
	req.LinkedSas = []dto.LinkedSaRequest{{SaID: "x", Quantity: dec("-1")}}
	_, err = e.ea.Create(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = baseEa("250001")
	req.LinkedSas = []dto.LinkedSaRequest{{SaID: "nope", Quantity: dec("1")}}
	_, err = e.ea.Create(ctx, "u", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.ea.Create(ctx, "u", baseEa("250001"))
	require.NoError(t, err)
	_, err = e.ea.Create(ctx, "u", baseEa("EA250001"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEaUpdateDelete_Guardas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa := e.createSa(t, "250001", "100", "")
	used, err := e.ea.Create(ctx, "exp-1", baseEa("250001"))
	require.NoError(t, err)
	free, err := e.ea.Create(ctx, "exp-1", baseEa("250002"))
	require.NoError(t, err)
	_, err = e.ap.Create(ctx, "exp-1", dto.CreateAllocationRequest{SaID: sa.ID, EaID: used.ID, Quantity: dec("1")})
	require.NoError(t, err)

	_, err = e.ea.Update(ctx, "exp-1", used.ID, dto.UpdateEaRequest{CustomerName: strPtr("Otro")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, e.ea.Delete(ctx, used.ID), domain.ErrInvalidInput)

	updated, err := e.ea.Update(ctx, "exp-1", free.ID, dto.UpdateEaRequest{CustomerName: strPtr("Otro"), TotalQuantity: decPtr("30")})
	require.NoError(t, err)
	assert.Equal(t, "Otro", updated.CustomerName)
	assert.Equal(t, "30", updated.TotalQuantity.String())

	require.NoError(t, e.ea.Delete(ctx, free.ID))
	_, err = e.ea.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEaList_FiltroClienteYAsignaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa := e.createSa(t, "250001", "100", "f8")

	req := baseEa("250001")
	req.FamilyID = "f5"
	req.LinkedSas = []dto.LinkedSaRequest{{SaID: sa.ID, Quantity: dec("9.2")}}
	_, err := e.ea.Create(ctx, "exp-1", req)
	require.NoError(t, err)
	other := baseEa("250002")
	other.CustomerName = "Maghreb Steel"
	_, err = e.ea.Create(ctx, "exp-1", other)
	require.NoError(t, err)

	list, err := e.ea.List(ctx, "Sonasid")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Len(t, list.Items[0].Allocations, 1)
	alloc := list.Items[0].Allocations[0]
	// 9.2 / 0.92 = 10 consumidas; merma 9.2 * 0.08 / 0.92 = 10 - 9.2
	assert.Equal(t, "10", alloc.Quantity.String())
	assert.Equal(t, "0.8", alloc.ScrapQuantity.String())
	assert.True(t, alloc.FamilyMismatch)
	assert.Equal(t, "Fil machine", alloc.Sa.FamilyName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Elegibles
// ──────────────────────────────────────────────────────────────────────────────

func TestSaEligible(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sa := e.createSa(t, "250001", "105", "f5")
	e.createSa(t, "250002", "10", "")

	list, err := e.sa.Eligible(ctx, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	list, err = e.sa.Eligible(ctx, "f5")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, sa.ID, list.Items[0].ID)
	assert.Equal(t, "100", list.Items[0].RemainingQuantity.String())
	assert.Equal(t, "5", list.Items[0].ScrapPercent.String())
}
