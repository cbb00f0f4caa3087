package cache

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
)

func TestKeyPattern(t *testing.T) {
	assert.Equal(t, "products:b1:*", keyPattern(ports.ProductListKey("b1", 0, 0)))
	assert.Equal(t, "products:all:*", keyPattern(ports.ProductListKey("", 0, 0)))
}

func TestRedisCatalogCache_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCatalogCache(client)
	defer c.Close()

	ctx := context.Background()
	_, ok, err := c.GetProducts(ctx, "products:b1:20:0")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.SetProducts(ctx, "products:b1:20:0", &dto.ProductListResponse{}, time.Minute))
	assert.NoError(t, c.SetProducts(ctx, "products:b1:20:0", nil, time.Minute))
	assert.Error(t, c.InvalidateBranch(ctx, "b1"))
}
