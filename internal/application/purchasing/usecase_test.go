package purchasing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/application/purchasing"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type invalidations struct {
	ports.NoopCatalogCache
	branches []string
}

func (c *invalidations) InvalidateBranch(_ context.Context, branchID string) error {
	c.branches = append(c.branches, branchID)
	return nil
}

type purchaseRecorder struct {
	branch string
	amount float64
	calls  int
}

func (m *purchaseRecorder) PurchaseCreated(branchID string, totalAmount float64) {
	m.branch, m.amount = branchID, totalAmount
	m.calls++
}

type env struct {
	store   *memory.Store
	cache   *invalidations
	metrics *purchaseRecorder
	uc      *purchasing.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.Organizations().Create(ctx, &entity.Organization{ID: "org-1", Name: "Abarrotes"}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "br-a", OrganizationID: "org-1", Name: "Centro", Code: "CTR"}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "br-b", OrganizationID: "org-1", Name: "Norte", Code: "NTE"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", BranchID: "br-a", Name: "Arroz 500g", SKU: "ARZ-500", Unit: "und", Cost: dec("8")}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-2", BranchID: "br-a", Name: "Frijol 1kg", SKU: "FRJ-1", Unit: "und"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-b", BranchID: "br-b", Name: "Aceite", SKU: "ACE-1", Unit: "und"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s-a", BranchID: "br-a", Name: "Distribuidora Sur"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s-b", BranchID: "br-b", Name: "Mayorista Norte"}))

	e := &env{store: store, cache: &invalidations{}, metrics: &purchaseRecorder{}}
	e.uc = purchasing.NewUseCase(
		memory.NewTxRunner(store),
		store.Purchases(), store.Suppliers(), store.Branches(), store.Products(),
		pricing.NewCalculator(pricing.DefaultPolicy()),
		e.cache, e.metrics,
	)
	return e
}

func item(product string, qty int64, cost, discount, kind string) dto.PurchaseItemRequest {
	return dto.PurchaseItemRequest{
		ProductID:    product,
		Quantity:     qty,
		CostPrice:    dec(cost),
		Discount:     dec(discount),
		DiscountType: kind,
	}
}

func (e *env) stock(t *testing.T, product, branch string) int64 {
	t.Helper()
	s, err := e.store.Stock().Get(context.Background(), product, branch)
	require.NoError(t, err)
	return s.Quantity
}

func (e *env) cost(t *testing.T, product string) decimal.Decimal {
	t.Helper()
	p, err := e.store.Products().GetByID(context.Background(), product)
	require.NoError(t, err)
	return p.Cost
}

func TestQuote(t *testing.T) {
	e := newEnv(t)

	out, err := e.uc.Quote(context.Background(), dto.QuotePurchaseRequest{Items: []dto.PurchaseItemRequest{
		item("p-1", 2, "10", "10", "percentage"),
		item("p-2", 3, "5", "20", "fixed"),
	}})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.True(t, dec("20").Equal(out.Items[0].Subtotal))
	assert.True(t, dec("2").Equal(out.Items[0].DiscountAmount))
	assert.True(t, dec("18").Equal(out.Items[0].Total))
	assert.True(t, out.Items[1].Total.IsZero(), "el descuento fijo mayor al subtotal deja la línea en cero")
	assert.True(t, dec("18").Equal(out.TotalAmount))

	empty, err := e.uc.Quote(context.Background(), dto.QuotePurchaseRequest{})
	require.NoError(t, err)
	assert.True(t, empty.TotalAmount.IsZero())

	_, err = e.uc.Quote(context.Background(), dto.QuotePurchaseRequest{Items: []dto.PurchaseItemRequest{
		item("p-1", 1, "10", "150", "percentage"),
	}})
	var inv *domain.InvalidInputError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "discount", inv.Field)
}

func TestCreate_ReceivesGoodsAndUpdatesCost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.uc.Create(ctx, dto.CreatePurchaseRequest{
		SupplierID: "s-a",
		BranchID:   "br-a",
		Items:      []dto.PurchaseItemRequest{item("p-1", 2, "10", "10", "percentage")},
	})
	require.NoError(t, err)
	assert.True(t, out.Status)
	assert.True(t, dec("18").Equal(out.TotalAmount))
	require.Len(t, out.Items, 1)
	assert.True(t, dec("18").Equal(out.Items[0].Total))
	assert.True(t, out.Items[0].TotalD.Equal(out.Items[0].Total))

	assert.Equal(t, int64(2), e.stock(t, "p-1", "br-a"))
	assert.True(t, dec("9").Equal(e.cost(t, "p-1")), "sin stock previo el costo es el neto de la compra")

	// segunda compra: promedio ponderado (2*9 + 2*12) / 4
	_, err = e.uc.Create(ctx, dto.CreatePurchaseRequest{
		SupplierID: "s-a",
		BranchID:   "br-a",
		Items:      []dto.PurchaseItemRequest{item("p-1", 2, "12", "0", "fixed")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.stock(t, "p-1", "br-a"))
	assert.True(t, dec("10.5").Equal(e.cost(t, "p-1")), e.cost(t, "p-1").String())

	entries, err := e.store.Ledger().List(ctx, repository.InventoryFilter{Type: entity.EntryTypePurchase})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, []string{"br-a", "br-a"}, e.cache.branches)
	assert.Equal(t, 2, e.metrics.calls)
	assert.Equal(t, "br-a", e.metrics.branch)
	assert.InDelta(t, 24.0, e.metrics.amount, 1e-9)
}

func TestCreate_ReferenceChecks(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreatePurchaseRequest
		field string
	}{
		{
			name:  "sucursal inexistente",
			req:   dto.CreatePurchaseRequest{SupplierID: "s-a", BranchID: "br-x", Items: []dto.PurchaseItemRequest{item("p-1", 1, "1", "0", "fixed")}},
			field: "branchId",
		},
		{
			name:  "proveedor de otra sucursal",
			req:   dto.CreatePurchaseRequest{SupplierID: "s-b", BranchID: "br-a", Items: []dto.PurchaseItemRequest{item("p-1", 1, "1", "0", "fixed")}},
			field: "supplierId",
		},
		{
			name:  "producto de otra sucursal",
			req:   dto.CreatePurchaseRequest{SupplierID: "s-a", BranchID: "br-a", Items: []dto.PurchaseItemRequest{item("p-b", 1, "1", "0", "fixed")}},
			field: "productId",
		},
		{
			name:  "tipo de descuento desconocido",
			req:   dto.CreatePurchaseRequest{SupplierID: "s-a", BranchID: "br-a", Items: []dto.PurchaseItemRequest{item("p-1", 1, "1", "0", "bogus")}},
			field: "discountType",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.uc.Create(context.Background(), tt.req)
			var inv *domain.InvalidInputError
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.field, inv.Field)
			assert.Zero(t, e.metrics.calls)
		})
	}
}

func TestCreate_InvalidLineStoresNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Create(ctx, dto.CreatePurchaseRequest{
		SupplierID: "s-a",
		BranchID:   "br-a",
		Items: []dto.PurchaseItemRequest{
			item("p-1", 2, "10", "0", "fixed"),
			item("p-2", 0, "10", "0", "fixed"),
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := e.uc.List(ctx, "br-a", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Zero(t, e.stock(t, "p-1", "br-a"))
}

func TestUpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, dto.CreatePurchaseRequest{
		SupplierID: "s-a",
		BranchID:   "br-a",
		Items:      []dto.PurchaseItemRequest{item("p-1", 3, "4", "0", "fixed")},
	})
	require.NoError(t, err)

	inactive := false
	out, err := e.uc.Update(ctx, created.ID, dto.UpdatePurchaseRequest{Status: &inactive})
	require.NoError(t, err)
	assert.False(t, out.Status)

	got, err := e.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Status)

	require.NoError(t, e.uc.Delete(ctx, created.ID))
	_, err = e.uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el libro conserva la entrada
	entries, err := e.store.Ledger().List(ctx, repository.InventoryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(3), e.stock(t, "p-1", "br-a"))

	assert.ErrorIs(t, e.uc.Delete(ctx, created.ID), domain.ErrNotFound)
}

type fakePDF struct {
	doc purchasing.PurchaseOrderDocument
}

func (f *fakePDF) GeneratePurchaseOrderPDF(_ context.Context, doc purchasing.PurchaseOrderDocument) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF-fake"), nil
}

func TestDownloadPurchaseOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, dto.CreatePurchaseRequest{
		SupplierID: "s-a",
		BranchID:   "br-a",
		Items:      []dto.PurchaseItemRequest{item("p-1", 1, "4", "0", "fixed")},
	})
	require.NoError(t, err)

	gen := &fakePDF{}
	pdfUC := purchasing.NewPDFUseCase(e.store.Purchases(), e.store.Suppliers(), e.store.Branches(), e.store.Products(), gen)

	data, name, err := pdfUC.DownloadPurchaseOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))
	assert.True(t, strings.HasPrefix(name, "orden_compra_"+created.ID[:8]))
	require.Len(t, gen.doc.Lines, 1)
	assert.Equal(t, "Arroz 500g", gen.doc.Lines[0].ProductName)
	assert.Equal(t, "Distribuidora Sur", gen.doc.Supplier.Name)
	assert.Equal(t, "CTR", gen.doc.Branch.Code)

	_, _, err = pdfUC.DownloadPurchaseOrder(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
