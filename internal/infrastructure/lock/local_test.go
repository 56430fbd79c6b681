package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_ExclusionPorClave(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inside, maxInside := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "sa:1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
	assert.Zero(t, l.size(), "las entradas se liberan al soltar")
}

func TestLocal_ClavesDistintasNoSeBloquean(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()
	u1, err := l.Lock(ctx, "sa:1")
	require.NoError(t, err)
	defer u1()

	ctx2, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	u2, err := l.Lock(ctx2, "sa:2")
	require.NoError(t, err)
	u2()
}

func TestLocal_CancelacionLiberaLoAdquirido(t *testing.T) {
	l := NewLocal()
	held, err := l.Lock(context.Background(), "sa:b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	// Orden: sa:a se obtiene, sa:b espera hasta el timeout
	_, err = l.Lock(ctx, "sa:b", "sa:a")
	require.Error(t, err)

	// sa:a quedó libre
	ua, err := l.Lock(context.Background(), "sa:a")
	require.NoError(t, err)
	ua()
	held()
	assert.Zero(t, l.size())
}

func TestLocal_UnlockIdempotente(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k", "k")
	require.NoError(t, err)
	unlock()
	unlock()
	assert.Zero(t, l.size())
}
