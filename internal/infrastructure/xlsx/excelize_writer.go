// Package xlsx genera los libros de exporte de SA y EA con excelize.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/apurement-api/internal/application/report"
)

const (
	sheetSa = "SA"
	sheetEa = "EA"
	dateFmt = "2006-01-02"
)

var _ report.SpreadsheetWriter = (*Writer)(nil)

// Writer implementa report.SpreadsheetWriter.
type Writer struct{}

// NewWriter construye el generador de libros.
func NewWriter() *Writer { return &Writer{} }

var saHeaders = []string{
	"N° SA", "Régimen", "Date déclaration", "Échéance", "Statut", "Fournisseur", "Famille",
	"Taux déchet %", "Quantité initiale", "Quantité apurée", "Reste", "Unité", "Montant DS",
}

var eaHeaders = []string{
	"N° EA", "Date export", "Client", "Pays", "Produit", "Quantité EA", "Unité",
	"N° SA", "Quantité imputée SA", "Déchet", "Famille différente",
}

// SaWorkbook una fila por SA.
func (w *Writer) SaWorkbook(_ context.Context, rows []report.SaRow) ([]byte, error) {
	f, err := newBook(sheetSa, saHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, r := range rows {
		sa := r.Sa
		family, percent := "", ""
		if sa.Family != nil {
			family = sa.Family.Label
			percent = sa.Family.ScrapPercent.StringFixed(2)
		}
		values := []interface{}{
			sa.Number, sa.RegimeCode, sa.DeclarationDate.Format(dateFmt), sa.DueDate.Format(dateFmt),
			sa.Status, sa.SupplierName, family, percent,
			num(sa.QuantityInitial), num(sa.QuantityApured), num(r.Remaining), sa.QuantityUnit,
			numPtr(sa.AmountDS),
		}
		if err := setRow(f, sheetSa, i+2, values); err != nil {
			return nil, err
		}
	}
	return write(f)
}

// EaWorkbook una fila por asignación; las EA sin apurements salen con las columnas SA vacías.
func (w *Writer) EaWorkbook(_ context.Context, rows []report.EaRow) ([]byte, error) {
	f, err := newBook(sheetEa, eaHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, r := range rows {
		ea := r.Ea
		values := []interface{}{
			ea.Number, ea.ExportDate.Format(dateFmt), ea.CustomerName, ea.DestinationCountry,
			ea.ProductDesc, num(ea.TotalQuantity), ea.QuantityUnit,
		}
		if a := r.Allocation; a != nil {
			saNumber := ""
			if a.Sa != nil {
				saNumber = a.Sa.Number
			}
			mismatch := ""
			if a.FamilyMismatch {
				mismatch = "OUI"
			}
			values = append(values, saNumber, num(a.Quantity), num(a.ScrapQuantity), mismatch)
		}
		if err := setRow(f, sheetEa, i+2, values); err != nil {
			return nil, err
		}
	}
	return write(f)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func newBook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	if err := setRow(f, sheet, 1, toInterfaces(headers)); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: aplicar estilo: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: fijar cabecera: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: escribir fila %d: %w", rowNo, err)
	}
	return nil
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

// num cantidades como número en la celda (3 decimales).
func num(d decimal.Decimal) float64 {
	return d.Round(3).InexactFloat64()
}

func numPtr(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return num(*d)
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
