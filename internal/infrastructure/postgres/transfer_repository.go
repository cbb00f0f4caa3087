package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
// Create y UpdateDetails escriben cabecera y líneas: llamarlos dentro de una transacción.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, source_branch_id, destination_branch_id, status, notes, created_at, updated_at`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var (
		t      entity.Transfer
		status string
	)
	if err := row.Scan(&t.ID, &t.SourceBranchID, &t.DestinationBranchID, &status, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = transfer.Status(status)
	return &t, nil
}

// Create persiste el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.SourceBranchID, t.DestinationBranchID, t.Status.String(), t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransferRepo) insertItems(ctx context.Context, t *entity.Transfer) error {
	for i, it := range t.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transfer_items (transfer_id, position, product_id, quantity)
			VALUES ($1, $2, $3, $4)`, t.ID, i, it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas; (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Transfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// CompareAndSetStatus UPDATE condicionado al estado leído: si otro proceso lo cambió no afecta filas.
func (r *TransferRepo) CompareAndSetStatus(ctx context.Context, id string, from, to transfer.Status, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`, id, from.String(), to.String(), at)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateDetails reemplaza notas y líneas si el estado almacenado sigue siendo t.Status.
func (r *TransferRepo) UpdateDetails(ctx context.Context, t *entity.Transfer) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET notes = $3, updated_at = $4
		WHERE id = $1 AND status = $2`, t.ID, t.Status.String(), t.Notes, t.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_items WHERE transfer_id = $1`, t.ID); err != nil {
		return false, fmt.Errorf("delete transfer items: %w", err)
	}
	if err := r.insertItems(ctx, t); err != nil {
		return false, err
	}
	return true, nil
}

// List lista traslados recientes primero; status vacío = todos.
func (r *TransferRepo) List(ctx context.Context, status transfer.Status, limit, offset int) ([]*entity.Transfer, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, status.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var out []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransferRepo) loadItems(ctx context.Context, transfers []*entity.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(transfers))
	byID := make(map[string]*entity.Transfer, len(transfers))
	for _, t := range transfers {
		ids = append(ids, t.ID)
		byID[t.ID] = t
		t.Items = nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT transfer_id, product_id, quantity FROM transfer_items
		WHERE transfer_id = ANY($1) ORDER BY transfer_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			transferID string
			it         entity.TransferItem
		)
		if err := rows.Scan(&transferID, &it.ProductID, &it.Quantity); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		if t := byID[transferID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}
	return rows.Err()
}

// CountByStatus conteo de traslados por estado.
func (r *TransferRepo) CountByStatus(ctx context.Context) (map[transfer.Status]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM transfers GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count transfers: %w", err)
	}
	defer rows.Close()
	out := make(map[transfer.Status]int, len(transfer.AllStatuses))
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan transfer count: %w", err)
		}
		out[transfer.Status(status)] = n
	}
	return out, rows.Err()
}

// Delete borra el traslado si el estado almacenado sigue siendo status.
func (r *TransferRepo) Delete(ctx context.Context, id string, status transfer.Status) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE id = $1 AND status = $2`, id, status.String())
	if err != nil {
		return false, fmt.Errorf("delete transfer: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
