// Package lock implementa apurement.Locker: mutex por clave en proceso (Local) o
// bloqueo distribuido sobre Redis (Redis).
package lock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
)

var _ apurement.Locker = (*Local)(nil)

// Local mutex por clave dentro del proceso. Las entradas se liberan cuando nadie las usa.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewLocal construye el locker en proceso.
func NewLocal() *Local {
	return &Local{locks: map[string]*entry{}}
}

// Lock adquiere las claves en orden; si el contexto se cancela libera lo ya adquirido.
func (l *Local) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	acquired := make([]string, 0, len(keys))
	for _, k := range keys {
		e := l.ref(k)
		select {
		case e.ch <- struct{}{}:
			acquired = append(acquired, k)
		case <-ctx.Done():
			l.unref(k)
			l.release(acquired)
			return nil, fmt.Errorf("lock %s: %w", k, ctx.Err())
		}
	}
	var once sync.Once
	return func() { once.Do(func() { l.release(acquired) }) }, nil
}

func (l *Local) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Local) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *Local) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.locks[keys[i]]
		l.mu.Unlock()
		<-e.ch
		l.unref(keys[i])
	}
}

// size número de claves vivas (tests).
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func normalize(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
