package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/pkg/config"
)

var _ ports.CatalogCache = (*RedisCatalogCache)(nil)

// NewClient crea el cliente Redis desde la configuración.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCatalogCache cache-aside de páginas del listado de productos (JSON con TTL).
type RedisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache construye el cache sobre un cliente ya creado.
func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

func (c *RedisCatalogCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

// GetProducts devuelve (nil, false, nil) si la clave no existe.
func (c *RedisCatalogCache) GetProducts(ctx context.Context, key string) (*dto.ProductListResponse, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	var resp dto.ProductListResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return &resp, true, nil
}

func (c *RedisCatalogCache) SetProducts(ctx context.Context, key string, value *dto.ProductListResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// InvalidateBranch borra las páginas de la sucursal y las del listado sin filtro.
func (c *RedisCatalogCache) InvalidateBranch(ctx context.Context, branchID string) error {
	patterns := []string{ports.ProductListKey(ports.AllBranches, 0, 0)}
	if branchID != "" {
		patterns = append(patterns, ports.ProductListKey(branchID, 0, 0))
	}
	for _, p := range patterns {
		if err := c.deleteMatching(ctx, keyPattern(p)); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisCatalogCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// keyPattern convierte "products:<branch>:0:0" en "products:<branch>:*".
func keyPattern(sample string) string {
	const suffix = ":0:0"
	return sample[:len(sample)-len(suffix)] + ":*"
}
