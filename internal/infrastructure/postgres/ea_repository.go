package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.EaRepository = (*EaRepo)(nil)

// EaRepo implementación del puerto EaRepository sobre PostgreSQL (pool o tx).
type EaRepo struct {
	q Querier
}

// NewEaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEaRepository(q Querier) *EaRepo {
	return &EaRepo{q: q}
}

const eaSelect = `
	SELECT e.id, e.ea_number, e.regime_code, e.export_date, e.status, e.customer_name,
	       e.destination_country, e.product_ref, e.product_desc, e.total_quantity, e.quantity_unit,
	       e.family_id, e.scrap_percent, e.scrap_quantity,
	       e.created_by, e.created_at, e.updated_by, e.updated_at
	FROM ea_declarations e`

type eaScan struct {
	ea        entity.EaDeclaration
	country   *string
	prodRef   *string
	prodDesc  *string
	familyID  *string
	createdBy *string
	updatedBy *string
}

func (s *eaScan) targets() []any {
	return []any{
		&s.ea.ID, &s.ea.Number, &s.ea.RegimeCode, &s.ea.ExportDate, &s.ea.Status, &s.ea.CustomerName,
		&s.country, &s.prodRef, &s.prodDesc, &s.ea.TotalQuantity, &s.ea.QuantityUnit,
		&s.familyID, &s.ea.ScrapPercent, &s.ea.ScrapQuantity,
		&s.createdBy, &s.ea.CreatedAt, &s.updatedBy, &s.ea.UpdatedAt,
	}
}

func (s *eaScan) result() *entity.EaDeclaration {
	ea := s.ea
	ea.DestinationCountry = derefString(s.country)
	ea.ProductRef = derefString(s.prodRef)
	ea.ProductDesc = derefString(s.prodDesc)
	ea.FamilyID = derefString(s.familyID)
	ea.CreatedBy = derefString(s.createdBy)
	ea.UpdatedBy = derefString(s.updatedBy)
	return &ea
}

// Create persiste una nueva EA.
func (r *EaRepo) Create(ctx context.Context, ea *entity.EaDeclaration) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ea_declarations (id, ea_number, regime_code, export_date, status, customer_name,
			destination_country, product_ref, product_desc, total_quantity, quantity_unit,
			family_id, scrap_percent, scrap_quantity, created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		ea.ID, ea.Number, ea.RegimeCode, ea.ExportDate, ea.Status, ea.CustomerName,
		nullString(ea.DestinationCountry), nullString(ea.ProductRef), nullString(ea.ProductDesc),
		ea.TotalQuantity, ea.QuantityUnit, nullString(ea.FamilyID), ea.ScrapPercent, ea.ScrapQuantity,
		nullString(ea.CreatedBy), ea.CreatedAt, nullString(ea.UpdatedBy), ea.UpdatedAt,
	)
	return mapError("insert ea", err)
}

// GetByID obtiene una EA por ID.
func (r *EaRepo) GetByID(ctx context.Context, id string) (*entity.EaDeclaration, error) {
	return r.getOne(ctx, "get ea", eaSelect+` WHERE e.id = $1`, id)
}

// GetForUpdate bloquea la fila: las inserciones de asignaciones (FK KEY SHARE) esperan al commit.
func (r *EaRepo) GetForUpdate(ctx context.Context, id string) (*entity.EaDeclaration, error) {
	return r.getOne(ctx, "get ea for update", eaSelect+` WHERE e.id = $1 FOR UPDATE`, id)
}

// GetByNumber obtiene una EA por número normalizado.
func (r *EaRepo) GetByNumber(ctx context.Context, number string) (*entity.EaDeclaration, error) {
	return r.getOne(ctx, "get ea by number", eaSelect+` WHERE e.ea_number = $1`, number)
}

func (r *EaRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.EaDeclaration, error) {
	var s eaScan
	if err := r.q.QueryRow(ctx, query, arg).Scan(s.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return s.result(), nil
}

// List ordena por fecha de exportación desc y número asc; CustomerName filtra por igualdad exacta.
func (r *EaRepo) List(ctx context.Context, filter repository.EaFilter) ([]*entity.EaDeclaration, error) {
	rows, err := r.q.Query(ctx, eaSelect+`
		WHERE ($1 = '' OR e.customer_name = $1)
		ORDER BY e.export_date DESC, e.ea_number ASC`, filter.CustomerName)
	if err != nil {
		return nil, fmt.Errorf("list ea: %w", err)
	}
	defer rows.Close()
	var list []*entity.EaDeclaration
	for rows.Next() {
		var s eaScan
		if err := rows.Scan(s.targets()...); err != nil {
			return nil, fmt.Errorf("scan ea: %w", err)
		}
		list = append(list, s.result())
	}
	return list, rows.Err()
}

// Update persiste los campos editables de la EA.
func (r *EaRepo) Update(ctx context.Context, ea *entity.EaDeclaration) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ea_declarations
		SET ea_number = $2, regime_code = $3, export_date = $4, customer_name = $5,
		    destination_country = $6, product_ref = $7, product_desc = $8, total_quantity = $9,
		    quantity_unit = $10, scrap_quantity = $11, updated_by = $12, updated_at = $13
		WHERE id = $1`,
		ea.ID, ea.Number, ea.RegimeCode, ea.ExportDate, ea.CustomerName,
		nullString(ea.DestinationCountry), nullString(ea.ProductRef), nullString(ea.ProductDesc),
		ea.TotalQuantity, ea.QuantityUnit, ea.ScrapQuantity, nullString(ea.UpdatedBy), ea.UpdatedAt,
	)
	if err != nil {
		return mapError("update ea", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("EA", ea.ID)
	}
	return nil
}

// Delete elimina la EA; la FK de sa_ea_allocations lo impide si tiene asignaciones.
func (r *EaRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ea_declarations WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.NewValidationError("la EA tiene asignaciones y no puede eliminarse")
		}
		return mapError("delete ea", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("EA", id)
	}
	return nil
}
