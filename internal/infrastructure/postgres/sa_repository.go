package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var (
	_ repository.SaRepository          = (*SaRepo)(nil)
	_ repository.SaApurementRepository = (*SaRepo)(nil)
)

// SaRepo implementación de SaRepository y SaApurementRepository sobre PostgreSQL (pool o tx).
type SaRepo struct {
	q Querier
}

// NewSaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaRepository(q Querier) *SaRepo {
	return &SaRepo{q: q}
}

// SA con su familia (LEFT JOIN): el orden de columnas lo fija saScan.targets.
const saSelect = `
	SELECT s.id, s.sa_number, s.regime_code, s.declaration_date, s.due_date, s.status,
	       s.quantity_initial, s.quantity_unit, s.quantity_apured, s.scrap_quantity_ton,
	       s.invoice_amount, s.currency_code, s.fx_rate, s.amount_ds, s.supplier_name,
	       s.family_id, s.description, s.created_by, s.created_at, s.updated_by, s.updated_at,
	       f.label, f.scrap_percent, f.is_active, f.created_at, f.updated_at
	FROM sa_declarations s
	LEFT JOIN sa_families f ON f.id = s.family_id`

// saScan destinos de scan con las columnas anulables.
type saScan struct {
	sa         entity.SaDeclaration
	currency   *string
	supplier   *string
	familyID   *string
	desc       *string
	createdBy  *string
	updatedBy  *string
	famLabel   *string
	famPercent *decimal.Decimal
	famActive  *bool
	famCreated *time.Time
	famUpdated *time.Time
}

func (s *saScan) targets() []any {
	return []any{
		&s.sa.ID, &s.sa.Number, &s.sa.RegimeCode, &s.sa.DeclarationDate, &s.sa.DueDate, &s.sa.Status,
		&s.sa.QuantityInitial, &s.sa.QuantityUnit, &s.sa.QuantityApured, &s.sa.ScrapQuantityTon,
		&s.sa.InvoiceAmount, &s.currency, &s.sa.FxRate, &s.sa.AmountDS, &s.supplier,
		&s.familyID, &s.desc, &s.createdBy, &s.sa.CreatedAt, &s.updatedBy, &s.sa.UpdatedAt,
		&s.famLabel, &s.famPercent, &s.famActive, &s.famCreated, &s.famUpdated,
	}
}

func (s *saScan) result() *entity.SaDeclaration {
	sa := s.sa
	sa.CurrencyCode = derefString(s.currency)
	sa.SupplierName = derefString(s.supplier)
	sa.FamilyID = derefString(s.familyID)
	sa.Description = derefString(s.desc)
	sa.CreatedBy = derefString(s.createdBy)
	sa.UpdatedBy = derefString(s.updatedBy)
	if sa.FamilyID != "" && s.famLabel != nil {
		fam := &entity.Family{
			ID:           sa.FamilyID,
			Label:        *s.famLabel,
			ScrapPercent: derefDecimal(s.famPercent),
			IsActive:     s.famActive != nil && *s.famActive,
		}
		if s.famCreated != nil {
			fam.CreatedAt = *s.famCreated
		}
		if s.famUpdated != nil {
			fam.UpdatedAt = *s.famUpdated
		}
		sa.Family = fam
	}
	return &sa
}

// Create persiste una nueva SA.
func (r *SaRepo) Create(ctx context.Context, sa *entity.SaDeclaration) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sa_declarations (id, sa_number, regime_code, declaration_date, due_date, status,
			quantity_initial, quantity_unit, quantity_apured, scrap_quantity_ton, invoice_amount,
			currency_code, fx_rate, amount_ds, supplier_name, family_id, description,
			created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		sa.ID, sa.Number, sa.RegimeCode, sa.DeclarationDate, sa.DueDate, sa.Status,
		sa.QuantityInitial, sa.QuantityUnit, sa.QuantityApured, sa.ScrapQuantityTon, sa.InvoiceAmount,
		nullString(sa.CurrencyCode), sa.FxRate, sa.AmountDS, nullString(sa.SupplierName),
		nullString(sa.FamilyID), nullString(sa.Description),
		nullString(sa.CreatedBy), sa.CreatedAt, nullString(sa.UpdatedBy), sa.UpdatedAt,
	)
	return mapError("insert sa", err)
}

// GetByID obtiene una SA con su familia.
func (r *SaRepo) GetByID(ctx context.Context, id string) (*entity.SaDeclaration, error) {
	return r.getOne(ctx, "get sa", saSelect+` WHERE s.id = $1`, id)
}

// GetForUpdate bloquea la fila de la SA (no la de la familia) hasta el fin de la tx.
func (r *SaRepo) GetForUpdate(ctx context.Context, id string) (*entity.SaDeclaration, error) {
	return r.getOne(ctx, "get sa for update", saSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

// GetByNumber obtiene una SA por número normalizado.
func (r *SaRepo) GetByNumber(ctx context.Context, number string) (*entity.SaDeclaration, error) {
	return r.getOne(ctx, "get sa by number", saSelect+` WHERE s.sa_number = $1`, number)
}

func (r *SaRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.SaDeclaration, error) {
	var s saScan
	if err := r.q.QueryRow(ctx, query, arg).Scan(s.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return s.result(), nil
}

// List ordena por fecha de declaración desc y número asc.
func (r *SaRepo) List(ctx context.Context, filter repository.SaFilter) ([]*entity.SaDeclaration, error) {
	where, args := saWhere(filter.Statuses, filter.FamilyID)
	return r.list(ctx, saSelect+where+` ORDER BY s.declaration_date DESC, s.sa_number ASC`, args...)
}

// ListEligible SA en los estados dados, vencimiento asc.
func (r *SaRepo) ListEligible(ctx context.Context, statuses []string, familyID string) ([]*entity.SaDeclaration, error) {
	where, args := saWhere(statuses, familyID)
	return r.list(ctx, saSelect+where+` ORDER BY s.due_date ASC, s.sa_number ASC`, args...)
}

func saWhere(statuses []string, familyID string) (string, []any) {
	var conds []string
	var args []any
	if len(statuses) > 0 {
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("s.status = ANY($%d)", len(args)))
	}
	if familyID != "" {
		args = append(args, familyID)
		conds = append(conds, fmt.Sprintf("s.family_id::text = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *SaRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SaDeclaration, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sa: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaDeclaration
	for rows.Next() {
		var s saScan
		if err := rows.Scan(s.targets()...); err != nil {
			return nil, fmt.Errorf("scan sa: %w", err)
		}
		list = append(list, s.result())
	}
	return list, rows.Err()
}

// Update persiste solo campos descriptivos: quantity_apured y status no se tocan aquí.
func (r *SaRepo) Update(ctx context.Context, sa *entity.SaDeclaration) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sa_declarations
		SET sa_number = $2, declaration_date = $3, due_date = $4, description = $5,
		    supplier_name = $6, updated_by = $7, updated_at = $8
		WHERE id = $1`,
		sa.ID, sa.Number, sa.DeclarationDate, sa.DueDate, nullString(sa.Description),
		nullString(sa.SupplierName), nullString(sa.UpdatedBy), sa.UpdatedAt,
	)
	if err != nil {
		return mapError("update sa", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("SA", sa.ID)
	}
	return nil
}

// UpdateApurement único escritor de la caché quantity_apured / status.
func (r *SaRepo) UpdateApurement(ctx context.Context, saID string, quantityApured decimal.Decimal, status string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sa_declarations SET quantity_apured = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		saID, quantityApured, status,
	)
	if err != nil {
		return mapError("update sa apurement", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("SA", saID)
	}
	return nil
}

// Delete elimina la SA; la FK de sa_ea_allocations lo impide si tiene asignaciones.
func (r *SaRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sa_declarations WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.NewValidationError("la SA tiene asignaciones y no puede eliminarse")
		}
		return mapError("delete sa", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("SA", id)
	}
	return nil
}
