// Package memory implementa los repositorios y el TxRunner en memoria.
// Un único escritor: cada transacción trabaja sobre una copia del estado y la publica en Commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/domain/entity"
)

var _ apurement.TxRunner = (*Store)(nil)

// state contiene los datos. Las entidades guardadas nunca se mutan en sitio: toda escritura
// reemplaza el puntero por una copia nueva, así basta con clonar los mapas en cada tx.
type state struct {
	families    map[string]*entity.Family
	sas         map[string]*entity.SaDeclaration
	eas         map[string]*entity.EaDeclaration
	allocations []*entity.Allocation // orden de inserción
	users       map[string]*entity.User
}

func newState() *state {
	return &state{
		families: map[string]*entity.Family{},
		sas:      map[string]*entity.SaDeclaration{},
		eas:      map[string]*entity.EaDeclaration{},
		users:    map[string]*entity.User{},
	}
}

func (s *state) clone() *state {
	return &state{
		families:    maps.Clone(s.families),
		sas:         maps.Clone(s.sas),
		eas:         maps.Clone(s.eas),
		allocations: slices.Clone(s.allocations),
		users:       maps.Clone(s.users),
	}
}

// view abstrae el acceso al estado: directo con mutex (Store) o sobre la copia de una tx.
type view interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store almacén en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve los repositorios fuera de transacción (cada operación es atómica por sí sola).
func (s *Store) Repos() apurement.Repos {
	return reposFor(s)
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository {
	return &UserRepository{v: s}
}

// Run ejecuta fn con el almacén bloqueado en exclusiva sobre una copia del estado;
// la copia se publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r apurement.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txView{st: s.st.clone()}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

type txView struct {
	st *state
}

func (t *txView) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txView) write(fn func(st *state) error) error { return fn(t.st) }

func reposFor(v view) apurement.Repos {
	return apurement.Repos{
		Families:    &FamilyRepository{v: v},
		Sa:          &SaRepository{v: v},
		SaApurement: &SaRepository{v: v},
		Ea:          &EaRepository{v: v},
		Allocations: &AllocationRepository{v: v},
	}
}
