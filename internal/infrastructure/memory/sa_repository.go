package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var (
	_ repository.SaRepository          = (*SaRepository)(nil)
	_ repository.SaApurementRepository = (*SaRepository)(nil)
)

// SaRepository implementación en memoria de SaRepository y SaApurementRepository.
type SaRepository struct {
	v view
}

func (r *SaRepository) Create(ctx context.Context, sa *entity.SaDeclaration) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.sas[sa.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.sas {
			if other.Number == sa.Number {
				return domain.ErrDuplicate
			}
		}
		if sa.FamilyID != "" && st.families[sa.FamilyID] == nil {
			return domain.NewNotFoundError("Familia", sa.FamilyID)
		}
		st.sas[sa.ID] = stripSa(sa)
		return nil
	})
}

func (r *SaRepository) GetByID(ctx context.Context, id string) (*entity.SaDeclaration, error) {
	var out *entity.SaDeclaration
	err := r.v.read(func(st *state) error {
		out = loadSa(st, st.sas[id])
		return nil
	})
	return out, err
}

// GetForUpdate la exclusión la garantiza Store.Run (un único escritor).
func (r *SaRepository) GetForUpdate(ctx context.Context, id string) (*entity.SaDeclaration, error) {
	return r.GetByID(ctx, id)
}

func (r *SaRepository) GetByNumber(ctx context.Context, number string) (*entity.SaDeclaration, error) {
	var out *entity.SaDeclaration
	err := r.v.read(func(st *state) error {
		for _, sa := range st.sas {
			if sa.Number == number {
				out = loadSa(st, sa)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *SaRepository) List(ctx context.Context, filter repository.SaFilter) ([]*entity.SaDeclaration, error) {
	var out []*entity.SaDeclaration
	err := r.v.read(func(st *state) error {
		out = filterSas(st, filter.Statuses, filter.FamilyID)
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.SaDeclaration) int {
		if c := b.DeclarationDate.Compare(a.DeclarationDate); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out, err
}

func (r *SaRepository) ListEligible(ctx context.Context, statuses []string, familyID string) ([]*entity.SaDeclaration, error) {
	var out []*entity.SaDeclaration
	err := r.v.read(func(st *state) error {
		out = filterSas(st, statuses, familyID)
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.SaDeclaration) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out, err
}

// Update conserva quantity_apured y status almacenados.
func (r *SaRepository) Update(ctx context.Context, sa *entity.SaDeclaration) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.sas[sa.ID]
		if !ok {
			return domain.NewNotFoundError("SA", sa.ID)
		}
		for _, other := range st.sas {
			if other.ID != sa.ID && other.Number == sa.Number {
				return domain.ErrDuplicate
			}
		}
		next := stripSa(sa)
		next.QuantityApured = cur.QuantityApured
		next.Status = cur.Status
		st.sas[sa.ID] = next
		return nil
	})
}

func (r *SaRepository) UpdateApurement(ctx context.Context, saID string, quantityApured decimal.Decimal, status string) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.sas[saID]
		if !ok {
			return domain.NewNotFoundError("SA", saID)
		}
		next := *cur
		next.QuantityApured = quantityApured
		next.Status = status
		st.sas[saID] = &next
		return nil
	})
}

// Delete falla si alguna asignación referencia la SA (equivalente a la FK).
func (r *SaRepository) Delete(ctx context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.sas[id]; !ok {
			return domain.NewNotFoundError("SA", id)
		}
		for _, a := range st.allocations {
			if a.SaID == id {
				return domain.NewValidationError("la SA tiene asignaciones y no puede eliminarse")
			}
		}
		delete(st.sas, id)
		return nil
	})
}

func filterSas(st *state, statuses []string, familyID string) []*entity.SaDeclaration {
	var out []*entity.SaDeclaration
	for _, sa := range st.sas {
		if len(statuses) > 0 && !slices.Contains(statuses, sa.Status) {
			continue
		}
		if familyID != "" && sa.FamilyID != familyID {
			continue
		}
		out = append(out, loadSa(st, sa))
	}
	return out
}

// loadSa copia la SA y carga su familia.
func loadSa(st *state, sa *entity.SaDeclaration) *entity.SaDeclaration {
	if sa == nil {
		return nil
	}
	c := *sa
	c.Family = nil
	if c.FamilyID != "" {
		c.Family = copyFamily(st.families[c.FamilyID])
	}
	return &c
}

func stripSa(sa *entity.SaDeclaration) *entity.SaDeclaration {
	c := *sa
	c.Family = nil
	return &c
}
