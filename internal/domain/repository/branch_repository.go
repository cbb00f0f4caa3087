package repository

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch (DIP).
type BranchRepository interface {
	// Create falla con domain.ErrDuplicate si el código ya existe en la organización.
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	// List con organizationID vacío lista todas.
	List(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Branch, error)
	Delete(ctx context.Context, id string) error
}
