package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
// Create debe llamarse dentro de una transacción (cabecera + líneas).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, supplier_id, branch_id, status, total_amount, created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(&p.ID, &p.SupplierID, &p.BranchID, &p.Status, &p.TotalAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la cabecera y sus líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.SupplierID, p.BranchID, p.Status, p.TotalAmount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewInvalidInput("supplierId", "proveedor o sucursal inexistente")
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseID = p.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, position, product_id, quantity, cost_price, discount, discount_type, total_d, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, p.ID, i, it.ProductID, it.Quantity, it.CostPrice, it.Discount, string(it.DiscountType), it.TotalD, it.Total,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.NewInvalidInput("productId", "el producto "+it.ProductID+" no existe")
			}
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la compra con sus líneas; (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Purchase{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus activa o desactiva la compra.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchases SET status = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista compras recientes primero; branchID vacío = todas.
func (r *PurchaseRepo) List(ctx context.Context, branchID string, limit, offset int) ([]*entity.Purchase, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+purchaseColumns+` FROM purchases
		WHERE ($1 = '' OR branch_id = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItems carga en una sola consulta las líneas de todas las compras dadas.
func (r *PurchaseRepo) loadItems(ctx context.Context, purchases []*entity.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	ids := make([]string, 0, len(purchases))
	byID := make(map[string]*entity.Purchase, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Items = nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, cost_price, discount, discount_type, total_d, total
		FROM purchase_items WHERE purchase_id = ANY($1)
		ORDER BY purchase_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it   entity.PurchaseItem
			kind string
		)
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.CostPrice,
			&it.Discount, &kind, &it.TotalD, &it.Total); err != nil {
			return fmt.Errorf("scan purchase item: %w", err)
		}
		it.DiscountType = pricing.DiscountKind(kind)
		if p := byID[it.PurchaseID]; p != nil {
			p.Items = append(p.Items, it)
		}
	}
	return rows.Err()
}

// Delete elimina la compra (las líneas caen en cascada).
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
