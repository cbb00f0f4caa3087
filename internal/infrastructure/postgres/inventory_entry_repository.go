package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.InventoryEntryRepository = (*InventoryEntryRepo)(nil)

// InventoryEntryRepo libro de inventario sobre PostgreSQL (solo inserción).
type InventoryEntryRepo struct {
	q Querier
}

// NewInventoryEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryEntryRepository(q Querier) *InventoryEntryRepo {
	return &InventoryEntryRepo{q: q}
}

const entryColumns = `id, product_id, branch_id, type, quantity, reference_id, notes, created_at`

func scanEntry(row pgx.Row) (*entity.InventoryEntry, error) {
	var e entity.InventoryEntry
	if err := row.Scan(&e.ID, &e.ProductID, &e.BranchID, &e.Type, &e.Quantity, &e.ReferenceID, &e.Notes, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create agrega un asiento.
func (r *InventoryEntryRepo) Create(ctx context.Context, e *entity.InventoryEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ProductID, e.BranchID, e.Type, e.Quantity, e.ReferenceID, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento.
func (r *InventoryEntryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM inventory_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory entry: %w", err)
	}
	return e, nil
}

// List asientos recientes primero con filtros opcionales.
func (r *InventoryEntryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.InventoryEntry, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+entryColumns+` FROM inventory_entries
		WHERE ($1 = '' OR branch_id = $1)
		  AND ($2 = '' OR product_id = $2)
		  AND ($3 = '' OR type = $3)
		ORDER BY created_at DESC, id LIMIT $4 OFFSET $5`,
		f.BranchID, f.ProductID, f.Type, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
