package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por sucursal+producto.
// Usado dentro de transacciones para garantizar consistencia con el libro.
type StockRepository interface {
	// Get devuelve stock en cero si no hay fila.
	Get(ctx context.Context, productID, branchID string) (*entity.Stock, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Stock, error)
}
