package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
)

// CatalogCache cache-aside del listado de productos por sucursal.
// Un fallo de cache nunca debe romper la lectura: el caso de uso cae a la BD.
type CatalogCache interface {
	GetProducts(ctx context.Context, key string) (*dto.ProductListResponse, bool, error)
	SetProducts(ctx context.Context, key string, value *dto.ProductListResponse, ttl time.Duration) error
	// InvalidateBranch borra todas las páginas cacheadas de la sucursal.
	InvalidateBranch(ctx context.Context, branchID string) error
}

// NoopCatalogCache cache deshabilitado (sin REDIS_ADDR).
type NoopCatalogCache struct{}

func (NoopCatalogCache) GetProducts(context.Context, string) (*dto.ProductListResponse, bool, error) {
	return nil, false, nil
}

func (NoopCatalogCache) SetProducts(context.Context, string, *dto.ProductListResponse, time.Duration) error {
	return nil
}

func (NoopCatalogCache) InvalidateBranch(context.Context, string) error { return nil }

// AllBranches segmento de clave para listados sin filtro de sucursal.
const AllBranches = "all"

// ProductListKey clave de una página del listado de productos.
func ProductListKey(branchID string, limit, offset int) string {
	if branchID == "" {
		branchID = AllBranches
	}
	return fmt.Sprintf("products:%s:%d:%d", branchID, limit, offset)
}
