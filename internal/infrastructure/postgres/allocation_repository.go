package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo ledger sa_ea_allocations sobre PostgreSQL. Solo inserción.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create inserta una asignación.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.Allocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sa_ea_allocations (id, sa_id, ea_id, quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.SaID, a.EaID, a.Quantity, nullString(a.CreatedBy), a.CreatedAt,
	)
	return mapError("insert allocation", err)
}

// SumBySa suma exacta en NUMERIC de las cantidades lado SA.
func (r *AllocationRepo) SumBySa(ctx context.Context, saID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM sa_ea_allocations WHERE sa_id = $1`, saID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError("sum allocations", err)
	}
	return sum, nil
}

// ListBySa orden canónico (created_at, id) con la EA cargada.
func (r *AllocationRepo) ListBySa(ctx context.Context, saID string) ([]*entity.Allocation, error) {
	rows, err := r.q.Query(ctx, `
		WITH a AS (
			SELECT id AS alloc_id, quantity, created_by AS alloc_by, created_at AS alloc_at, sa_id, ea_id
			FROM sa_ea_allocations WHERE sa_id = $1
		)
		SELECT a.alloc_id, a.sa_id, a.ea_id, a.quantity, a.alloc_by, a.alloc_at,
		       e.id, e.ea_number, e.regime_code, e.export_date, e.status, e.customer_name,
		       e.destination_country, e.product_ref, e.product_desc, e.total_quantity, e.quantity_unit,
		       e.family_id, e.scrap_percent, e.scrap_quantity,
		       e.created_by, e.created_at, e.updated_by, e.updated_at
		FROM a JOIN ea_declarations e ON e.id = a.ea_id
		ORDER BY a.alloc_at ASC, a.alloc_id ASC`, saID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by sa: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		var by *string
		var ea eaScan
		dest := append([]any{&a.ID, &a.SaID, &a.EaID, &a.Quantity, &by, &a.CreatedAt}, ea.targets()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.CreatedBy = derefString(by)
		a.Ea = ea.result()
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListByEa orden canónico (created_at, id) con la SA y su familia cargadas.
func (r *AllocationRepo) ListByEa(ctx context.Context, eaID string) ([]*entity.Allocation, error) {
	rows, err := r.q.Query(ctx, `
		WITH a AS (
			SELECT id AS alloc_id, quantity, created_by AS alloc_by, created_at AS alloc_at, sa_id, ea_id
			FROM sa_ea_allocations WHERE ea_id = $1
		)
		SELECT a.alloc_id, a.sa_id, a.ea_id, a.quantity, a.alloc_by, a.alloc_at,
		       s.id, s.sa_number, s.regime_code, s.declaration_date, s.due_date, s.status,
		       s.quantity_initial, s.quantity_unit, s.quantity_apured, s.scrap_quantity_ton,
		       s.invoice_amount, s.currency_code, s.fx_rate, s.amount_ds, s.supplier_name,
		       s.family_id, s.description, s.created_by, s.created_at, s.updated_by, s.updated_at,
		       f.label, f.scrap_percent, f.is_active, f.created_at, f.updated_at
		FROM a
		JOIN sa_declarations s ON s.id = a.sa_id
		LEFT JOIN sa_families f ON f.id = s.family_id
		ORDER BY a.alloc_at ASC, a.alloc_id ASC`, eaID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by ea: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		var by *string
		var sa saScan
		dest := append([]any{&a.ID, &a.SaID, &a.EaID, &a.Quantity, &by, &a.CreatedAt}, sa.targets()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.CreatedBy = derefString(by)
		a.Sa = sa.result()
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CountBySa cantidad de asignaciones de la SA.
func (r *AllocationRepo) CountBySa(ctx context.Context, saID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM sa_ea_allocations WHERE sa_id = $1`, saID)
}

// CountByEa cantidad de asignaciones de la EA.
func (r *AllocationRepo) CountByEa(ctx context.Context, eaID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM sa_ea_allocations WHERE ea_id = $1`, eaID)
}

func (r *AllocationRepo) count(ctx context.Context, query, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, id).Scan(&n); err != nil {
		if isInvalidID(err) {
			return 0, nil
		}
		return 0, mapError("count allocations", err)
	}
	return n, nil
}
