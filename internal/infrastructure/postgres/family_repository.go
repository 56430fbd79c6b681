package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.FamilyRepository = (*FamilyRepo)(nil)

// FamilyRepo implementación del puerto FamilyRepository sobre PostgreSQL (usable con pool o tx).
type FamilyRepo struct {
	q Querier
}

// NewFamilyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFamilyRepository(q Querier) *FamilyRepo {
	return &FamilyRepo{q: q}
}

const familyColumns = `id, label, scrap_percent, is_active, created_at, updated_at`

// GetByID obtiene una familia por ID.
func (r *FamilyRepo) GetByID(ctx context.Context, id string) (*entity.Family, error) {
	var f entity.Family
	err := r.q.QueryRow(ctx, `SELECT `+familyColumns+` FROM sa_families WHERE id = $1`, id).Scan(
		&f.ID, &f.Label, &f.ScrapPercent, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return &f, nil
}

// List ordena por etiqueta.
func (r *FamilyRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Family, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+familyColumns+` FROM sa_families WHERE ($1 = FALSE OR is_active) ORDER BY label`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()
	var list []*entity.Family
	for rows.Next() {
		var f entity.Family
		if err := rows.Scan(&f.ID, &f.Label, &f.ScrapPercent, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza por id (carga inicial de coeficientes).
func (r *FamilyRepo) Upsert(ctx context.Context, f *entity.Family) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sa_families (id, label, scrap_percent, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET label = EXCLUDED.label, scrap_percent = EXCLUDED.scrap_percent,
		    is_active = EXCLUDED.is_active, updated_at = NOW()`,
		f.ID, f.Label, f.ScrapPercent, f.IsActive,
	)
	return mapError("upsert family", err)
}
