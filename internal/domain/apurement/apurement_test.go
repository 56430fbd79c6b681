package apurement_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Conversión EA → SA
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumedOnSa_Tabla(t *testing.T) {
	cases := []struct {
		name    string
		qty     string
		percent string
		want    string
	}{
		{"sin merma", "10", "0", "10"},
		{"5 por ciento", "10", "5", "10.526"},
		{"20 por ciento", "8", "20", "10"},
		{"cantidad fraccionaria", "1.234", "3", "1.272"},
		{"99.9 por ciento", "1", "99.9", "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate := apurement.ScrapRate(&entity.Family{ScrapPercent: dec(tc.percent)})
			got, err := apurement.ConsumedOnSa(dec(tc.qty), rate)
			require.NoError(t, err)
			assert.True(t, dec(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestConsumedOnSa_CoeficienteInvalido(t *testing.T) {
	for _, p := range []string{"100", "150", "-1"} {
		rate := apurement.ScrapRate(&entity.Family{ScrapPercent: dec(p)})
		_, err := apurement.ConsumedOnSa(dec("10"), rate)
		require.Error(t, err, "p=%s debe rechazarse", p)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestScrapRate_SinFamilia(t *testing.T) {
	assert.True(t, apurement.ScrapRate(nil).IsZero())
}

func TestScrapQuantity(t *testing.T) {
	assert.True(t, dec("0.526").Equal(apurement.ScrapQuantity(dec("10"), dec("0.05"))))
	assert.True(t, apurement.ScrapQuantity(dec("10"), decimal.Zero).IsZero())
	assert.True(t, apurement.ScrapQuantity(dec("10"), dec("1")).IsZero())
}

func TestScrapOfConsumed_IgualConsumidoMenosEA(t *testing.T) {
	rate := dec("0.05")
	for _, ea := range []string{"10", "9.5", "1.234", "60"} {
		consumed, err := apurement.ConsumedOnSa(dec(ea), rate)
		require.NoError(t, err)
		scrap := apurement.ScrapOfConsumed(consumed, rate)
		assert.True(t, apurement.ScrapQuantity(dec(ea), rate).Equal(scrap), "ea=%s", ea)
		assert.True(t, apurement.Round3(consumed.Sub(dec(ea))).Equal(scrap), "ea=%s", ea)
	}
	assert.Equal(t, "0.526", apurement.ScrapOfConsumed(dec("10.526"), rate).String())
	assert.True(t, apurement.ScrapOfConsumed(dec("10"), decimal.Zero).IsZero())
	assert.True(t, apurement.ScrapOfConsumed(dec("10"), dec("1")).IsZero())
}

func TestRound3_MitadLejosDeCero(t *testing.T) {
	assert.Equal(t, "0.001", apurement.Round3(dec("0.0005")).String())
	assert.Equal(t, "-0.001", apurement.Round3(dec("-0.0005")).String())
	assert.Equal(t, "2.345", apurement.Round3(dec("2.3449")).String())
}

func TestSaScrapAllowance(t *testing.T) {
	assert.Equal(t, "5", apurement.SaScrapAllowance(dec("100"), dec("5")).String())
	assert.Equal(t, "0.617", apurement.SaScrapAllowance(dec("12.345"), dec("5")).String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Elegibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestEaRemaining_UsaCoeficienteUnoMasT(t *testing.T) {
	// 105 / 1.05 = 100 con el coeficiente de la proyección
	assert.Equal(t, "100", apurement.EaRemaining(dec("105"), dec("0.05")).String())
	assert.Equal(t, "1.05", apurement.EligibilityCoef(dec("0.05")).String())
	assert.Equal(t, "40", apurement.EaRemaining(dec("40"), decimal.Zero).String())
}

func TestRemaining_NuncaNegativo(t *testing.T) {
	assert.Equal(t, "60", apurement.Remaining(dec("100"), dec("40")).String())
	assert.True(t, apurement.Remaining(dec("100"), dec("100.00005")).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado y cuota
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus_Monotono(t *testing.T) {
	initial := dec("100")
	assert.Equal(t, entity.SaStatusOpen, apurement.DeriveStatus(decimal.Zero, initial))
	assert.Equal(t, entity.SaStatusPartiallyApured, apurement.DeriveStatus(dec("40"), initial))
	assert.Equal(t, entity.SaStatusPartiallyApured, apurement.DeriveStatus(dec("99.999"), initial))
	assert.Equal(t, entity.SaStatusFullyApured, apurement.DeriveStatus(dec("99.9999"), initial))
	assert.Equal(t, entity.SaStatusFullyApured, apurement.DeriveStatus(dec("100"), initial))
}

func TestCheckQuota(t *testing.T) {
	total, err := apurement.CheckQuota(decimal.Zero, dec("60"), dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "60", total.String())

	_, err = apurement.CheckQuota(dec("60"), dec("50"), dec("100"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "110")
	assert.Contains(t, err.Error(), "100")

	_, err = apurement.CheckQuota(dec("60"), dec("40.0001"), dec("100"))
	assert.NoError(t, err, "la tolerancia de 1e-4 se acepta")
}

func TestIsEligible(t *testing.T) {
	assert.True(t, apurement.IsEligible(entity.SaStatusOpen))
	assert.True(t, apurement.IsEligible(entity.SaStatusPartiallyApured))
	assert.False(t, apurement.IsEligible(entity.SaStatusFullyApured))
}
