package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var (
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
	_ repository.BranchRepository       = (*BranchRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
)

// ── Organizaciones ────────────────────────────────────────────────────────────

// OrganizationRepo organizaciones en memoria.
type OrganizationRepo struct{ v view }

func (r *OrganizationRepo) Create(_ context.Context, o *entity.Organization) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.orgs[o.ID]; ok {
			return domain.ErrDuplicate
		}
		d.orgs[o.ID] = *o
		return nil
	})
}

func (r *OrganizationRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	var out *entity.Organization
	err := r.v.do(func(d *data) error {
		if o, ok := d.orgs[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrganizationRepo) Update(_ context.Context, o *entity.Organization) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.orgs[o.ID]; !ok {
			return domain.ErrNotFound
		}
		d.orgs[o.ID] = *o
		return nil
	})
}

func (r *OrganizationRepo) List(_ context.Context, limit, offset int) ([]*entity.Organization, error) {
	var out []*entity.Organization
	err := r.v.do(func(d *data) error {
		all := make([]entity.Organization, 0, len(d.orgs))
		for _, o := range d.orgs {
			all = append(all, o)
		}
		byNameThenID(all, func(o entity.Organization) string { return o.Name }, func(o entity.Organization) string { return o.ID })
		for _, o := range page(all, limit, offset) {
			o := o
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *OrganizationRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.orgs[id]; !ok {
			return domain.ErrNotFound
		}
		for _, b := range d.branches {
			if b.OrganizationID == id {
				return fmt.Errorf("%w: la organización tiene sucursales", domain.ErrConflict)
			}
		}
		delete(d.orgs, id)
		return nil
	})
}

// ── Sucursales ────────────────────────────────────────────────────────────────

// BranchRepo sucursales en memoria.
type BranchRepo struct{ v view }

func (r *BranchRepo) Create(_ context.Context, b *entity.Branch) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.orgs[b.OrganizationID]; !ok {
			return domain.NewInvalidInput("organizationId", "la organización no existe")
		}
		if branchCodeTaken(d, b) {
			return domain.ErrDuplicate
		}
		d.branches[b.ID] = *b
		return nil
	})
}

func branchCodeTaken(d *data, b *entity.Branch) bool {
	for _, other := range d.branches {
		if other.ID != b.ID && other.OrganizationID == b.OrganizationID && other.Code == b.Code {
			return true
		}
	}
	return false
}

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	err := r.v.do(func(d *data) error {
		if b, ok := d.branches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BranchRepo) Update(_ context.Context, b *entity.Branch) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.branches[b.ID]; !ok {
			return domain.ErrNotFound
		}
		if branchCodeTaken(d, b) {
			return domain.ErrDuplicate
		}
		d.branches[b.ID] = *b
		return nil
	})
}

func (r *BranchRepo) List(_ context.Context, organizationID string, limit, offset int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	err := r.v.do(func(d *data) error {
		all := make([]entity.Branch, 0, len(d.branches))
		for _, b := range d.branches {
			if organizationID == "" || b.OrganizationID == organizationID {
				all = append(all, b)
			}
		}
		byNameThenID(all, func(b entity.Branch) string { return b.Name }, func(b entity.Branch) string { return b.ID })
		for _, b := range page(all, limit, offset) {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	return out, err
}

func (r *BranchRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.branches[id]; !ok {
			return domain.ErrNotFound
		}
		if branchReferenced(d, id) {
			return fmt.Errorf("%w: la sucursal tiene registros asociados", domain.ErrConflict)
		}
		delete(d.branches, id)
		return nil
	})
}

func branchReferenced(d *data, id string) bool {
	for _, p := range d.products {
		if p.BranchID == id {
			return true
		}
	}
	for _, s := range d.suppliers {
		if s.BranchID == id {
			return true
		}
	}
	for k := range d.stock {
		if k.branchID == id {
			return true
		}
	}
	for _, row := range d.purchases {
		if row.p.BranchID == id {
			return true
		}
	}
	for _, row := range d.transfers {
		if row.t.SourceBranchID == id || row.t.DestinationBranchID == id {
			return true
		}
	}
	for _, row := range d.entries {
		if row.e.BranchID == id {
			return true
		}
	}
	return false
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.branches[p.BranchID]; !ok {
			return domain.NewInvalidInput("branchId", "la sucursal no existe")
		}
		if skuTaken(d, p) {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = *p
		return nil
	})
}

func skuTaken(d *data, p *entity.Product) bool {
	for _, other := range d.products {
		if other.ID != p.ID && other.BranchID == p.BranchID && other.SKU == p.SKU {
			return true
		}
	}
	return false
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(d *data) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByBranchAndSKU(_ context.Context, branchID, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(d *data) error {
		for _, p := range d.products {
			if p.BranchID == branchID && p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(d *data) error {
		current, ok := d.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if skuTaken(d, p) {
			return domain.ErrDuplicate
		}
		updated := *p
		updated.Cost = current.Cost
		d.products[p.ID] = updated
		return nil
	})
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.v.do(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		p.UpdatedAt = time.Now().UTC()
		d.products[productID] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, branchID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(func(d *data) error {
		all := make([]entity.Product, 0, len(d.products))
		for _, p := range d.products {
			if branchID == "" || p.BranchID == branchID {
				all = append(all, p)
			}
		}
		byNameThenID(all, func(p entity.Product) string { return p.Name }, func(p entity.Product) string { return p.ID })
		for _, p := range page(all, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrNotFound
		}
		if productReferenced(d, id) {
			return fmt.Errorf("%w: el producto tiene movimientos asociados", domain.ErrConflict)
		}
		delete(d.products, id)
		return nil
	})
}

func productReferenced(d *data, id string) bool {
	for k := range d.stock {
		if k.productID == id {
			return true
		}
	}
	for _, row := range d.entries {
		if row.e.ProductID == id {
			return true
		}
	}
	for _, row := range d.purchases {
		for _, it := range row.p.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	for _, row := range d.transfers {
		for _, it := range row.t.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	return false
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.branches[s.BranchID]; !ok {
			return domain.NewInvalidInput("branchId", "la sucursal no existe")
		}
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.do(func(d *data) error {
		if s, ok := d.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, branchID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.v.do(func(d *data) error {
		all := make([]entity.Supplier, 0, len(d.suppliers))
		for _, s := range d.suppliers {
			if branchID == "" || s.BranchID == branchID {
				all = append(all, s)
			}
		}
		byNameThenID(all, func(s entity.Supplier) string { return s.Name }, func(s entity.Supplier) string { return s.ID })
		for _, s := range page(all, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, row := range d.purchases {
			if row.p.SupplierID == id {
				return fmt.Errorf("%w: el proveedor tiene compras registradas", domain.ErrConflict)
			}
		}
		delete(d.suppliers, id)
		return nil
	})
}
