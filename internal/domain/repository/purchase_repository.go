package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetByID devuelve la compra con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	UpdateStatus(ctx context.Context, id string, active bool) error
	List(ctx context.Context, branchID string, limit, offset int) ([]*entity.Purchase, error)
	Delete(ctx context.Context, id string) error
}
