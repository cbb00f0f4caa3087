package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// InventoryFilter filtros opcionales del libro de inventario (vacío = sin filtro).
type InventoryFilter struct {
	BranchID  string
	ProductID string
	Type      string
	Limit     int
	Offset    int
}

// InventoryEntryRepository puerto del libro de inventario (solo inserción y lectura).
type InventoryEntryRepository interface {
	Create(ctx context.Context, entry *entity.InventoryEntry) error
	GetByID(ctx context.Context, id string) (*entity.InventoryEntry, error)
	List(ctx context.Context, f InventoryFilter) ([]*entity.InventoryEntry, error)
}
