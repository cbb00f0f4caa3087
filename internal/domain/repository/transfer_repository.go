package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

// TransferRepository define el puerto de persistencia para traslados.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// CompareAndSetStatus cambia el estado solo si el almacenado sigue siendo from.
	// Devuelve false (sin error) si otro proceso lo cambió antes.
	CompareAndSetStatus(ctx context.Context, id string, from, to transfer.Status, at time.Time) (bool, error)
	// UpdateDetails reemplaza notas y líneas, condicionado a que el estado almacenado sea status.
	UpdateDetails(ctx context.Context, t *entity.Transfer) (bool, error)
	// List con status vacío lista todos.
	List(ctx context.Context, status transfer.Status, limit, offset int) ([]*entity.Transfer, error)
	CountByStatus(ctx context.Context) (map[transfer.Status]int, error)
	// Delete borra solo si el estado almacenado sigue siendo status.
	Delete(ctx context.Context, id string, status transfer.Status) (bool, error)
}
