package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/apurement-api/internal/application/apurement"
	"github.com/jhoicas/apurement-api/internal/domain"
	"github.com/jhoicas/apurement-api/pkg/logger"
)

var _ apurement.Locker = (*Redis)(nil)

// Redis bloqueo distribuido por clave (bsm/redislock). Necesario cuando varias instancias
// de la API comparten la base de datos.
type Redis struct {
	locker *redislock.Client
	ttl    time.Duration
	opts   *redislock.Options
	log    *logger.Logger
}

// NewRedis construye el locker sobre un cliente go-redis. ttl acota cuánto puede retenerse
// una clave si el proceso muere con el bloqueo tomado.
func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	if log == nil {
		log = logger.Nop()
	}
	return &Redis{
		locker: redislock.New(client),
		ttl:    ttl,
		opts: &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
		},
		log: log.Named("redislock"),
	}
}

// Lock obtiene todas las claves en orden. Si alguna no se obtiene libera las anteriores y
// devuelve un error que envuelve domain.ErrConflict.
func (r *Redis) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// contexto propio: la liberación no debe depender de una petición ya cancelada
			relCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := held[i].Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				r.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el bloqueo")
			}
			cancel()
		}
	}

	for _, k := range keys {
		l, err := r.locker.Obtain(ctx, k, r.ttl, r.opts)
		if errors.Is(err, redislock.ErrNotObtained) {
			releaseAll()
			return nil, fmt.Errorf("lock %s no obtenido: %w", k, domain.ErrConflict)
		}
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		held = append(held, l)
	}
	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 100,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
