package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.EaRepository = (*EaRepository)(nil)

// EaRepository implementación en memoria.
type EaRepository struct {
	v view
}

func (r *EaRepository) Create(ctx context.Context, ea *entity.EaDeclaration) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.eas[ea.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.eas {
			if other.Number == ea.Number {
				return domain.ErrDuplicate
			}
		}
		st.eas[ea.ID] = copyEa(ea)
		return nil
	})
}

func (r *EaRepository) GetByID(ctx context.Context, id string) (*entity.EaDeclaration, error) {
	var out *entity.EaDeclaration
	err := r.v.read(func(st *state) error {
		out = copyEa(st.eas[id])
		return nil
	})
	return out, err
}

// GetForUpdate la exclusión la garantiza Store.Run (un único escritor).
func (r *EaRepository) GetForUpdate(ctx context.Context, id string) (*entity.EaDeclaration, error) {
	return r.GetByID(ctx, id)
}

func (r *EaRepository) GetByNumber(ctx context.Context, number string) (*entity.EaDeclaration, error) {
	var out *entity.EaDeclaration
	err := r.v.read(func(st *state) error {
		for _, ea := range st.eas {
			if ea.Number == number {
				out = copyEa(ea)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *EaRepository) List(ctx context.Context, filter repository.EaFilter) ([]*entity.EaDeclaration, error) {
	var out []*entity.EaDeclaration
	err := r.v.read(func(st *state) error {
		for _, ea := range st.eas {
			if filter.CustomerName != "" && ea.CustomerName != filter.CustomerName {
				continue
			}
			out = append(out, copyEa(ea))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.EaDeclaration) int {
		if c := b.ExportDate.Compare(a.ExportDate); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out, err
}

func (r *EaRepository) Update(ctx context.Context, ea *entity.EaDeclaration) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.eas[ea.ID]; !ok {
			return domain.NewNotFoundError("EA", ea.ID)
		}
		for _, other := range st.eas {
			if other.ID != ea.ID && other.Number == ea.Number {
				return domain.ErrDuplicate
			}
		}
		st.eas[ea.ID] = copyEa(ea)
		return nil
	})
}

func (r *EaRepository) Delete(ctx context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.eas[id]; !ok {
			return domain.NewNotFoundError("EA", id)
		}
		for _, a := range st.allocations {
			if a.EaID == id {
				return domain.NewValidationError("la EA tiene asignaciones y no puede eliminarse")
			}
		}
		delete(st.eas, id)
		return nil
	})
}

func copyEa(ea *entity.EaDeclaration) *entity.EaDeclaration {
	if ea == nil {
		return nil
	}
	c := *ea
	return &c
}
