package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	calc "github.com/jhoicas/apurement-api/internal/domain/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

// Tipos de contenido de los documentos generados.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// File documento generado listo para descargar.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// UseCase exportes xlsx y estado PDF de apurement.
type UseCase struct {
	engine *apurement.Service
	reads  apurement.Repos
	sheets SpreadsheetWriter
	pdf    StatementRenderer
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(engine *apurement.Service, reads apurement.Repos, sheets SpreadsheetWriter, pdf StatementRenderer) *UseCase {
	return &UseCase{engine: engine, reads: reads, sheets: sheets, pdf: pdf}
}

// ExportSa libro con todas las SA (fecha de declaración desc).
func (uc *UseCase) ExportSa(ctx context.Context) (*File, error) {
	list, err := uc.reads.Sa.List(ctx, repository.SaFilter{})
	if err != nil {
		return nil, err
	}
	rows := make([]SaRow, 0, len(list))
	for _, sa := range list {
		rows = append(rows, SaRow{Sa: sa, Remaining: calc.Remaining(sa.QuantityInitial, sa.QuantityApured)})
	}
	content, err := uc.sheets.SaWorkbook(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("report: exporte SA: %w", err)
	}
	return &File{Name: uc.fileName("export_sa", "xlsx"), ContentType: ContentTypeXLSX, Content: content}, nil
}

// ExportEa libro de EA con una fila por asignación; customerName filtra por cliente exacto.
func (uc *UseCase) ExportEa(ctx context.Context, customerName string) (*File, error) {
	list, err := uc.reads.Ea.List(ctx, repository.EaFilter{CustomerName: customerName})
	if err != nil {
		return nil, err
	}
	var rows []EaRow
	for _, ea := range list {
		allocs, err := uc.reads.Allocations.ListByEa(ctx, ea.ID)
		if err != nil {
			return nil, err
		}
		if len(allocs) == 0 {
			rows = append(rows, EaRow{Ea: ea})
			continue
		}
		for _, a := range allocs {
			view := apurement.ToEaAllocation(ea, a)
			rows = append(rows, EaRow{Ea: ea, Allocation: &view})
		}
	}
	content, err := uc.sheets.EaWorkbook(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("report: exporte EA: %w", err)
	}
	return &File{Name: uc.fileName("export_ea", "xlsx"), ContentType: ContentTypeXLSX, Content: content}, nil
}

// SaStatement PDF con las asignaciones de la SA y el acumulado línea a línea.
func (uc *UseCase) SaStatement(ctx context.Context, saID string) (*File, error) {
	allocs, err := uc.engine.ListAllocationsForSa(ctx, saID)
	if err != nil {
		return nil, err
	}
	sa, err := uc.reads.Sa.GetByID(ctx, saID)
	if err != nil {
		return nil, err
	}
	st := Statement{
		Sa:          sa,
		Remaining:   calc.Remaining(sa.QuantityInitial, sa.QuantityApured),
		Lines:       make([]StatementLine, 0, len(allocs)),
		GeneratedAt: uc.engine.Now(),
	}
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
		st.Lines = append(st.Lines, StatementLine{Allocation: a, Cumulative: calc.Round3(total)})
	}
	content, err := uc.pdf.SaStatement(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("report: estado SA: %w", err)
	}
	return &File{Name: "statement_" + sa.Number + ".pdf", ContentType: ContentTypePDF, Content: content}, nil
}

func (uc *UseCase) fileName(base, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, uc.engine.Now().Format("20060102_1504"), ext)
}
