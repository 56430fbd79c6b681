package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, LockLocal, cfg.Lock.Driver)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL())
	assert.Equal(t, 3, cfg.Apurement.MaxAttempts)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.False(t, cfg.Bootstrap.Enabled())
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("LOCK_DRIVER", "redis")
	v.Set("REDIS_DB", "2")
	v.Set("APUREMENT_MAX_ATTEMPTS", "0")
	v.Set("DATABASE_URL", "postgres://u:p@h:5432/db")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, LockRedis, cfg.Lock.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 1, cfg.Apurement.MaxAttempts)
	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DB.ConnectionString())
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("LOCK_DRIVER", "zookeeper")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "apurement", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/apurement?sslmode=disable", c.DSN())
}

func TestFromViper_Bootstrap(t *testing.T) {
	v := viper.New()
	v.Set("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com")
	v.Set("BOOTSTRAP_ADMIN_PASSWORD", "cambiar")
	v.Set("BOOTSTRAP_FAMILIES_CSV", "data/families.csv")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Bootstrap.Enabled())
	assert.Equal(t, "data/families.csv", cfg.Bootstrap.FamiliesCSV)
}
