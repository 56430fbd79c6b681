package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepository)(nil)

// AllocationRepository ledger en memoria (solo inserción).
type AllocationRepository struct {
	v view
}

func (r *AllocationRepository) Create(ctx context.Context, a *entity.Allocation) error {
	return r.v.write(func(st *state) error {
		if st.sas[a.SaID] == nil {
			return fmt.Errorf("allocation: SA inexistente %s: %w", a.SaID, domain.ErrInvalidInput)
		}
		if st.eas[a.EaID] == nil {
			return fmt.Errorf("allocation: EA inexistente %s: %w", a.EaID, domain.ErrInvalidInput)
		}
		c := *a
		c.Sa, c.Ea = nil, nil
		st.allocations = append(st.allocations, &c)
		return nil
	})
}

func (r *AllocationRepository) SumBySa(ctx context.Context, saID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.SaID == saID {
				sum = sum.Add(a.Quantity)
			}
		}
		return nil
	})
	return sum, err
}

func (r *AllocationRepository) ListBySa(ctx context.Context, saID string) ([]*entity.Allocation, error) {
	var out []*entity.Allocation
	err := r.v.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.SaID != saID {
				continue
			}
			c := *a
			c.Ea = copyEa(st.eas[a.EaID])
			out = append(out, &c)
		}
		return nil
	})
	sortAllocations(out)
	return out, err
}

func (r *AllocationRepository) ListByEa(ctx context.Context, eaID string) ([]*entity.Allocation, error) {
	var out []*entity.Allocation
	err := r.v.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.EaID != eaID {
				continue
			}
			c := *a
			c.Sa = loadSa(st, st.sas[a.SaID])
			out = append(out, &c)
		}
		return nil
	})
	sortAllocations(out)
	return out, err
}

func (r *AllocationRepository) CountBySa(ctx context.Context, saID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.SaID == saID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AllocationRepository) CountByEa(ctx context.Context, eaID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, a := range st.allocations {
			if a.EaID == eaID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// sortAllocations orden canónico: created_at asc, luego id.
func sortAllocations(list []*entity.Allocation) {
	slices.SortStableFunc(list, func(a, b *entity.Allocation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
