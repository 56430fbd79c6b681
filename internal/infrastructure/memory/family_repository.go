package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/apurement-api/internal/domain/entity"
	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

var _ repository.FamilyRepository = (*FamilyRepository)(nil)

// FamilyRepository implementación en memoria.
type FamilyRepository struct {
	v view
}

func (r *FamilyRepository) GetByID(ctx context.Context, id string) (*entity.Family, error) {
	var out *entity.Family
	err := r.v.read(func(st *state) error {
		out = copyFamily(st.families[id])
		return nil
	})
	return out, err
}

// List ordena por etiqueta.
func (r *FamilyRepository) List(ctx context.Context, onlyActive bool) ([]*entity.Family, error) {
	var out []*entity.Family
	err := r.v.read(func(st *state) error {
		for _, f := range st.families {
			if onlyActive && !f.IsActive {
				continue
			}
			out = append(out, copyFamily(f))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Family) int {
		return strings.Compare(a.Label, b.Label)
	})
	return out, err
}

func (r *FamilyRepository) Upsert(ctx context.Context, f *entity.Family) error {
	return r.v.write(func(st *state) error {
		st.families[f.ID] = copyFamily(f)
		return nil
	})
}

func copyFamily(f *entity.Family) *entity.Family {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
