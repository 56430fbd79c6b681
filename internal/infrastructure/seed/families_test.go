package seed_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/apurement-api/internal/infrastructure/seed"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestParseFamiliesCSV_Latin1(t *testing.T) {
	raw := latin1(t, "label;scrap_percent\nRond à béton;5\n# comentario\n\nFil machine;7,5\n")
	list, err := seed.ParseFamiliesCSV(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Rond à béton", list[0].Label)
	assert.Equal(t, "5", list[0].ScrapPercent.String())
	assert.True(t, list[0].IsActive)
	assert.Equal(t, "Fil machine", list[1].Label)
	assert.Equal(t, "7.5", list[1].ScrapPercent.String())
}

func TestParseFamiliesCSV_UltimaEtiquetaGana(t *testing.T) {
	list, err := seed.ParseFamiliesCSV(bytes.NewReader(latin1(t, "Tôle;2\nTÔLE;3\n")))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "TÔLE", list[0].Label)
	assert.Equal(t, "3", list[0].ScrapPercent.String())
}

func TestParseFamiliesCSV_Errores(t *testing.T) {
	cases := map[string]string{
		"sin separador":  "Rond;5\nsolo-etiqueta\n",
		"porcentaje 100": "Rond;100\n",
		"negativo":       "Rond;-1\n",
		"etiqueta vacía": "Rond;5\n;4\n",
		"no numérico":    "Rond;5\nFil;abc\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := seed.ParseFamiliesCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestFamilyID_Estable(t *testing.T) {
	assert.Equal(t, seed.FamilyID("Rond à béton"), seed.FamilyID("  rond à béton "))
	assert.NotEqual(t, seed.FamilyID("Rond à béton"), seed.FamilyID("Fil machine"))
}
