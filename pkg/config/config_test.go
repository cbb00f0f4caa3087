package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 60*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Pricing.MaxPercentageDiscount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "postgres://postgres:@localhost:5432/sucursales?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("CACHE_TTL_SECONDS", "5")
	v.Set("PRICING_MAX_PERCENTAGE_DISCOUNT", "50")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Pricing.MaxPercentageDiscount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_Invalid(t *testing.T) {
	t.Run("driver desconocido", func(t *testing.T) {
		v := viper.New()
		v.Set("STORE_DRIVER", "mongo")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
	t.Run("porcentaje no numérico", func(t *testing.T) {
		v := viper.New()
		v.Set("PRICING_MAX_PERCENTAGE_DISCOUNT", "cien")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
	t.Run("porcentaje cero", func(t *testing.T) {
		v := viper.New()
		v.Set("PRICING_MAX_PERCENTAGE_DISCOUNT", "0")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
}

func TestDSN_EscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "x", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/x?sslmode=require", c.DSN())
}
