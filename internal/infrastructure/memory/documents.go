package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

var (
	_ repository.PurchaseRepository       = (*PurchaseRepo)(nil)
	_ repository.TransferRepository       = (*TransferRepo)(nil)
	_ repository.InventoryEntryRepository = (*InventoryEntryRepo)(nil)
	_ repository.StockRepository          = (*StockRepo)(nil)
)

func copyPurchase(p entity.Purchase) entity.Purchase {
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return p
}

func copyTransfer(t entity.Transfer) entity.Transfer {
	t.Items = append([]entity.TransferItem(nil), t.Items...)
	return t
}

// ── Compras ───────────────────────────────────────────────────────────────────

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ v view }

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := d.suppliers[p.SupplierID]; !ok {
			return domain.NewInvalidInput("supplierId", "proveedor o sucursal inexistente")
		}
		if _, ok := d.branches[p.BranchID]; !ok {
			return domain.NewInvalidInput("supplierId", "proveedor o sucursal inexistente")
		}
		for i := range p.Items {
			it := &p.Items[i]
			if _, ok := d.products[it.ProductID]; !ok {
				return domain.NewInvalidInput("productId", "el producto "+it.ProductID+" no existe")
			}
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.PurchaseID = p.ID
		}
		d.purchases[p.ID] = purchaseRow{seq: d.next(), p: copyPurchase(*p)}
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.v.do(func(d *data) error {
		if row, ok := d.purchases[id]; ok {
			p := copyPurchase(row.p)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) UpdateStatus(_ context.Context, id string, active bool) error {
	return r.v.do(func(d *data) error {
		row, ok := d.purchases[id]
		if !ok {
			return domain.ErrNotFound
		}
		row.p.Status = active
		row.p.UpdatedAt = time.Now().UTC()
		d.purchases[id] = row
		return nil
	})
}

func (r *PurchaseRepo) List(_ context.Context, branchID string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	err := r.v.do(func(d *data) error {
		rows := make([]purchaseRow, 0, len(d.purchases))
		for _, row := range d.purchases {
			if branchID == "" || row.p.BranchID == branchID {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		for _, row := range page(rows, limit, offset) {
			p := copyPurchase(row.p)
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.purchases[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.purchases, id)
		return nil
	})
}

// ── Traslados ─────────────────────────────────────────────────────────────────

// TransferRepo traslados en memoria con compare-and-set sobre el estado.
type TransferRepo struct{ v view }

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		d.transfers[t.ID] = transferRow{seq: d.next(), t: copyTransfer(*t)}
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.v.do(func(d *data) error {
		if row, ok := d.transfers[id]; ok {
			t := copyTransfer(row.t)
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) CompareAndSetStatus(_ context.Context, id string, from, to transfer.Status, at time.Time) (bool, error) {
	var ok bool
	err := r.v.do(func(d *data) error {
		row, found := d.transfers[id]
		if !found || row.t.Status != from {
			return nil
		}
		row.t.Status = to
		row.t.UpdatedAt = at
		d.transfers[id] = row
		ok = true
		return nil
	})
	return ok, err
}

func (r *TransferRepo) UpdateDetails(_ context.Context, t *entity.Transfer) (bool, error) {
	var ok bool
	err := r.v.do(func(d *data) error {
		row, found := d.transfers[t.ID]
		if !found || row.t.Status != t.Status {
			return nil
		}
		row.t.Notes = t.Notes
		row.t.Items = append([]entity.TransferItem(nil), t.Items...)
		row.t.UpdatedAt = t.UpdatedAt
		d.transfers[t.ID] = row
		ok = true
		return nil
	})
	return ok, err
}

func (r *TransferRepo) List(_ context.Context, status transfer.Status, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.v.do(func(d *data) error {
		rows := make([]transferRow, 0, len(d.transfers))
		for _, row := range d.transfers {
			if status == "" || row.t.Status == status {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		for _, row := range page(rows, limit, offset) {
			t := copyTransfer(row.t)
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) CountByStatus(_ context.Context) (map[transfer.Status]int, error) {
	out := make(map[transfer.Status]int, len(transfer.AllStatuses))
	err := r.v.do(func(d *data) error {
		for _, row := range d.transfers {
			out[row.t.Status]++
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) Delete(_ context.Context, id string, status transfer.Status) (bool, error) {
	var ok bool
	err := r.v.do(func(d *data) error {
		row, found := d.transfers[id]
		if !found || row.t.Status != status {
			return nil
		}
		delete(d.transfers, id)
		ok = true
		return nil
	})
	return ok, err
}

// ── Libro de inventario ───────────────────────────────────────────────────────

// InventoryEntryRepo libro en memoria (solo inserción).
type InventoryEntryRepo struct{ v view }

func (r *InventoryEntryRepo) Create(_ context.Context, e *entity.InventoryEntry) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.entries[e.ID]; ok {
			return domain.ErrDuplicate
		}
		d.entries[e.ID] = entryRow{seq: d.next(), e: *e}
		return nil
	})
}

func (r *InventoryEntryRepo) GetByID(_ context.Context, id string) (*entity.InventoryEntry, error) {
	var out *entity.InventoryEntry
	err := r.v.do(func(d *data) error {
		if row, ok := d.entries[id]; ok {
			e := row.e
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *InventoryEntryRepo) List(_ context.Context, f repository.InventoryFilter) ([]*entity.InventoryEntry, error) {
	var out []*entity.InventoryEntry
	err := r.v.do(func(d *data) error {
		rows := make([]entryRow, 0, len(d.entries))
		for _, row := range d.entries {
			if f.BranchID != "" && row.e.BranchID != f.BranchID {
				continue
			}
			if f.ProductID != "" && row.e.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && row.e.Type != f.Type {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		for _, row := range page(rows, f.Limit, f.Offset) {
			e := row.e
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockRepo existencias en memoria. GetForUpdate no necesita bloquear: la transacción ya tiene el mutex.
type StockRepo struct{ v view }

func (r *StockRepo) Get(_ context.Context, productID, branchID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.v.do(func(d *data) error {
		s, ok := d.stock[stockKey{productID, branchID}]
		if !ok {
			s = entity.Stock{ProductID: productID, BranchID: branchID}
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, branchID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.v.do(func(d *data) error {
		if s.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		d.stock[stockKey{s.ProductID, s.BranchID}] = *s
		return nil
	})
}

func (r *StockRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	err := r.v.do(func(d *data) error {
		for _, s := range d.stock {
			if s.BranchID == branchID {
				s := s
				out = append(out, &s)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
		return nil
	})
	return out, err
}
