package apurement

import (
	"context"

	"github.com/jhoicas/apurement-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Families    repository.FamilyRepository
	Sa          repository.SaRepository
	SaApurement repository.SaApurementRepository
	Ea          repository.EaRepository
	Allocations repository.AllocationRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Los errores de serialización o
// deadlock del almacén se devuelven envueltos en domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Locker bloqueo por clave previo a la transacción (una clave por SA).
// Lock adquiere todas las claves o ninguna; si no puede, devuelve un error que envuelve
// domain.ErrConflict. unlock libera todas las claves adquiridas.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// NoopLocker no bloquea nada: la serialización queda a cargo del almacén (SELECT FOR UPDATE).
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, ...string) (func(), error) { return func() {}, nil }

// SaLockKey clave de bloqueo de una SA.
func SaLockKey(saID string) string { return "apurement:sa:" + saID }

// EaLockKey clave de bloqueo de una EA.
func EaLockKey(eaID string) string { return "apurement:ea:" + eaID }
