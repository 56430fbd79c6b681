// Package seed lee los datos de carga inicial (familias de producto) desde el CSV
// que entrega el área de compras, codificado en ISO-8859-1.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// familyNamespace espacio de nombres de los ids de familia: la misma etiqueta produce
// siempre el mismo UUID, así el seed SQL y el arranque en memoria coinciden.
var familyNamespace = uuid.MustParse("6f1c3a52-8a0e-4f55-9d2b-3c7e51a0b9d4")

// FamilyID id estable de una familia a partir de su etiqueta.
func FamilyID(label string) string {
	return uuid.NewSHA1(familyNamespace, []byte(strings.ToLower(strings.TrimSpace(label)))).String()
}

// ParseFamiliesCSV lee líneas "label;scrap_percent" en Latin-1. Ignora líneas vacías,
// comentarios (#) y una cabecera cuyo segundo campo no sea numérico en la primera línea.
func ParseFamiliesCSV(r io.Reader) ([]*entity.Family, error) {
	sc := bufio.NewScanner(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	seen := make(map[string]int)
	var out []*entity.Family
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, raw, ok := strings.Cut(line, ";")
		if !ok {
			return nil, fmt.Errorf("línea %d: se esperaba \"label;scrap_percent\"", n)
		}
		label = strings.TrimSpace(label)
		raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
		percent, err := decimal.NewFromString(raw)
		if err != nil {
			if n == 1 {
				continue // cabecera
			}
			return nil, fmt.Errorf("línea %d: porcentaje %q inválido", n, raw)
		}
		if label == "" {
			return nil, fmt.Errorf("línea %d: etiqueta vacía", n)
		}
		if percent.IsNegative() || !percent.LessThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("línea %d: el porcentaje debe estar en [0, 100)", n)
		}
		f := &entity.Family{ID: FamilyID(label), Label: label, ScrapPercent: percent, IsActive: true}
		// la última aparición de una etiqueta gana
		if i, dup := seen[f.ID]; dup {
			out[i] = f
			continue
		}
		seen[f.ID] = len(out)
		out = append(out, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return out, nil
}
