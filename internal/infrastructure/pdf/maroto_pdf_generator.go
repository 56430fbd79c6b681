// Package pdf genera el estado de apurement de una SA.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° SA + régimen      │  Estado + fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SA: fechas / proveedor / familia y tasa de merma            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | N° EA | Cliente | Cantidad SA | Acumulado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Inicial / Apurada / Resto                          │
//	│  FOOTER: QR de control + leyenda                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/apurement-api/internal/application/report"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateFmt = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.StatementRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.StatementRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string
}

// NewMarotoPDFGenerator construye el generador; issuer aparece como autor del documento.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// SaStatement genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) SaStatement(_ context.Context, st report.Statement) ([]byte, error) {
	if st.Sa == nil {
		return nil, fmt.Errorf("pdf: estado sin SA")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etat d'apurement "+st.Sa.Number, true).
		WithAuthor(nonEmpty(g.issuer, "apurement-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(saRow(st.Sa))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(st.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Aucune imputation enregistrée.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableDetailRows(st.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(st))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(st))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: N° SA + régimen (izq) y estado + fecha de emisión (der).
func headerRow(st report.Statement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ÉTAT D'APUREMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(st.Sa.Number, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 5,
			}),
			text.New("Régime: "+st.Sa.RegimeCode, props.Text{
				Size: 9, Top: 13, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(statusLabel(st.Sa.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emis le "+st.GeneratedAt.Format(dateFmt), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// saRow: fechas, proveedor y familia de la SA.
func saRow(sa *entity.SaDeclaration) core.Row {
	family := "—"
	if sa.Family != nil {
		family = sa.Family.Label + " (" + formatPercent(sa.Family.ScrapPercent) + ")"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SOUMISSION D'ADMISSION TEMPORAIRE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Déclarée le: %s   |   Echéance: %s   |   Fournisseur: %s",
				sa.DeclarationDate.Format(dateFmt),
				sa.DueDate.Format(dateFmt),
				nonEmpty(sa.SupplierName, "—"),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Famille: "+family, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de imputaciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("N° EA", 2, align.Left),
		h("Client", 4, align.Left),
		h("Quantité SA", 2, align.Right),
		h("Cumul", 2, align.Right),
	)
}

// tableDetailRows: una fila por imputación, en orden de creación.
func tableDetailRows(lines []report.StatementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		a := l.Allocation
		eaNumber, customer := "—", "—"
		if a.Ea != nil {
			eaNumber = a.Ea.Number
			customer = nonEmpty(a.Ea.CustomerName, "—")
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(a.CreatedAt.Format(dateFmt),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(eaNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(4).Add(text.New(customer,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatQty(a.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(l.Cumulative),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: cuota inicial, apurada y restante.
func totalsRow(st report.Statement) core.Row {
	unit := " " + st.Sa.QuantityUnit
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Quantité initiale:"),
			label("Quantité apurée:"),
			text.New("Reste à apurer:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2,
			}),
		),
		col.New(3).Add(
			value(formatQty(st.Sa.QuantityInitial)+unit),
			value(formatQty(st.Sa.QuantityApured)+unit),
			text.New(formatQty(st.Remaining)+unit, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// footerRow: QR con número, apurado y resto para control en aduana.
func footerRow(st report.Statement) core.Row {
	qr := fmt.Sprintf("%s|%s|%s|%s", st.Sa.Number, st.Sa.Status,
		st.Sa.QuantityApured.StringFixed(3), st.Remaining.StringFixed(3))
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Les quantités sont exprimées dans l'unité de la SA, déchet inclus.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d imputation(s)", len(st.Lines)), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func statusLabel(status string) string {
	switch status {
	case entity.SaStatusOpen:
		return "OUVERTE"
	case entity.SaStatusPartiallyApured:
		return "PARTIELLEMENT APUREE"
	case entity.SaStatusFullyApured:
		return "TOTALEMENT APUREE"
	default:
		return status
	}
}
