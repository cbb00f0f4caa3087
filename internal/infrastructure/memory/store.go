// Package memory implementa todos los puertos de persistencia en memoria (modo desarrollo y tests).
// Las reglas de integridad imitan el esquema PostgreSQL: unicidad, referencias y compare-and-set.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

type stockKey struct {
	productID string
	branchID  string
}

type purchaseRow struct {
	seq int64
	p   entity.Purchase
}

type transferRow struct {
	seq int64
	t   entity.Transfer
}

type entryRow struct {
	seq int64
	e   entity.InventoryEntry
}

type data struct {
	seq       int64
	orgs      map[string]entity.Organization
	branches  map[string]entity.Branch
	products  map[string]entity.Product
	suppliers map[string]entity.Supplier
	purchases map[string]purchaseRow
	transfers map[string]transferRow
	entries   map[string]entryRow
	stock     map[stockKey]entity.Stock
}

func newData() *data {
	return &data{
		orgs:      map[string]entity.Organization{},
		branches:  map[string]entity.Branch{},
		products:  map[string]entity.Product{},
		suppliers: map[string]entity.Supplier{},
		purchases: map[string]purchaseRow{},
		transfers: map[string]transferRow{},
		entries:   map[string]entryRow{},
		stock:     map[stockKey]entity.Stock{},
	}
}

func (d *data) next() int64 {
	d.seq++
	return d.seq
}

// clone copia profunda para poder deshacer una transacción.
func (d *data) clone() *data {
	c := newData()
	c.seq = d.seq
	for k, v := range d.orgs {
		c.orgs[k] = v
	}
	for k, v := range d.branches {
		c.branches[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.purchases {
		v.p = copyPurchase(v.p)
		c.purchases[k] = v
	}
	for k, v := range d.transfers {
		v.t = copyTransfer(v.t)
		c.transfers[k] = v
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	for k, v := range d.stock {
		c.stock[k] = v
	}
	return c
}

// Store estado compartido protegido por un mutex. Las transacciones toman el mutex completo.
type Store struct {
	mu sync.Mutex
	d  *data
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData()}
}

// view acceso al estado: fuera de transacción bloquea por llamada; dentro, el runner ya tiene el lock.
type view struct {
	s    *Store
	inTx bool
}

// do ejecuta fn sobre el estado; lecturas y escrituras pasan por aquí.
func (v view) do(fn func(d *data) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.d)
}

// Organizations repositorio de organizaciones.
func (s *Store) Organizations() *OrganizationRepo { return &OrganizationRepo{view{s: s}} }

// Branches repositorio de sucursales.
func (s *Store) Branches() *BranchRepo { return &BranchRepo{view{s: s}} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{view{s: s}} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{view{s: s}} }

// Purchases repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{view{s: s}} }

// Transfers repositorio de traslados.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{view{s: s}} }

// Ledger repositorio del libro de inventario.
func (s *Store) Ledger() *InventoryEntryRepo { return &InventoryEntryRepo{view{s: s}} }

// Stock repositorio de existencias.
func (s *Store) Stock() *StockRepo { return &StockRepo{view{s: s}} }

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el mutex del store y restaura el estado si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn con repos atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.d.clone()
	v := view{s: r.s, inTx: true}
	err := fn(ports.TxRepos{
		Products:  &ProductRepo{v},
		Purchases: &PurchaseRepo{v},
		Transfers: &TransferRepo{v},
		Ledger:    &InventoryEntryRepo{v},
		Stock:     &StockRepo{v},
	})
	if err != nil {
		r.s.d = snapshot
		return err
	}
	return nil
}

// page aplica limit/offset (mismos límites que el API) sobre una lista ya ordenada.
func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// byNameThenID orden estable de catálogos.
func byNameThenID[T any](items []T, name, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		if name(items[i]) != name(items[j]) {
			return name(items[i]) < name(items[j])
		}
		return id(items[i]) < id(items[j])
	})
}
