// Package purchasing registra compras a proveedor: cotiza con el calculador de líneas, persiste la
// compra y da entrada a la mercancía en el libro de inventario de la sucursal.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	appinventory "github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/inventory"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// UseCase casos de uso de compras.
type UseCase struct {
	tx        ports.TxRunner
	purchases repository.PurchaseRepository
	suppliers repository.SupplierRepository
	branches  repository.BranchRepository
	products  repository.ProductRepository
	calc      pricing.Calculator
	cache     ports.CatalogCache
	metrics   ports.PurchaseMetrics
}

// NewUseCase construye el caso de uso. cache y metrics pueden ser nil.
func NewUseCase(
	tx ports.TxRunner,
	purchases repository.PurchaseRepository,
	suppliers repository.SupplierRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	calc pricing.Calculator,
	cache ports.CatalogCache,
	metrics ports.PurchaseMetrics,
) *UseCase {
	if cache == nil {
		cache = ports.NoopCatalogCache{}
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{
		tx:        tx,
		purchases: purchases,
		suppliers: suppliers,
		branches:  branches,
		products:  products,
		calc:      calc,
		cache:     cache,
		metrics:   metrics,
	}
}

// Quote calcula los totales de las líneas sin persistir nada (vista previa del formulario).
// Sin líneas el total es 0.
func (uc *UseCase) Quote(_ context.Context, in dto.QuotePurchaseRequest) (*dto.QuoteResponse, error) {
	lines, err := toLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	out := &dto.QuoteResponse{Items: make([]dto.QuoteLineResponse, 0, len(lines))}
	for _, l := range lines {
		b, err := uc.calc.Breakdown(l)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.QuoteLineResponse{
			ProductID:      l.ProductID,
			Subtotal:       pricing.RoundForDisplay(b.Subtotal),
			DiscountAmount: pricing.RoundForDisplay(b.DiscountAmount),
			Total:          pricing.RoundForDisplay(b.LineTotal),
		})
	}
	total, err := uc.calc.ComputeOrderTotal(lines)
	if err != nil {
		return nil, err
	}
	out.TotalAmount = pricing.RoundForDisplay(total)
	return out, nil
}

// Create recalcula los totales y, en una transacción, guarda la compra, registra un asiento PURCHASE
// por línea, incrementa el stock de la sucursal y actualiza el costo promedio de cada producto.
func (uc *UseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	lines, err := toLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, in.SupplierID, in.BranchID, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	purchase, err := entity.NewPurchase(uuid.New().String(), in.SupplierID, in.BranchID, lines, uc.calc, now)
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		for i, item := range purchase.Items {
			if err := uc.receive(ctx, repos, purchase, lines[i], item, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateBranch(ctx, purchase.BranchID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("branch_id", purchase.BranchID).Msg("no se pudo invalidar cache de productos")
	}
	uc.metrics.PurchaseCreated(purchase.BranchID, purchase.TotalAmount.InexactFloat64())
	return ToPurchaseResponse(purchase), nil
}

// receive da entrada a una línea: asiento + stock (bloqueado) + costo promedio ponderado.
func (uc *UseCase) receive(
	ctx context.Context,
	repos ports.TxRepos,
	purchase *entity.Purchase,
	line pricing.LineItem,
	item entity.PurchaseItem,
	now time.Time,
) error {
	product, err := repos.Products.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NewInvalidInput("productId", "el producto "+item.ProductID+" no existe")
	}
	before, err := appinventory.Post(ctx, repos.Stock, repos.Ledger, appinventory.Movement{
		ProductID:   item.ProductID,
		BranchID:    purchase.BranchID,
		Type:        entity.EntryTypePurchase,
		Quantity:    item.Quantity,
		ReferenceID: purchase.ID,
		Notes:       "compra " + purchase.ID,
	}, now)
	if err != nil {
		return err
	}
	// costo neto: el total exacto (sin redondear) dividido por la cantidad
	lineTotal, err := uc.calc.ComputeLineTotal(line)
	if err != nil {
		return err
	}
	newCost := inventory.CostCalculator(
		decimal.NewFromInt(before),
		product.Cost,
		decimal.NewFromInt(item.Quantity),
		inventory.UnitCost(lineTotal, item.Quantity),
	)
	if err := repos.Products.UpdateCost(ctx, product.ID, newCost.Round(4)); err != nil {
		return fmt.Errorf("purchasing: actualizar costo: %w", err)
	}
	return nil
}

// checkReferences verifica que proveedor y productos pertenezcan a la sucursal de la compra.
func (uc *UseCase) checkReferences(ctx context.Context, supplierID, branchID string, lines []pricing.LineItem) error {
	branch, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.NewInvalidInput("branchId", "la sucursal no existe")
	}
	supplier, err := uc.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.NewInvalidInput("supplierId", "el proveedor no existe")
	}
	if supplier.BranchID != branchID {
		return domain.NewInvalidInput("supplierId", "el proveedor no pertenece a la sucursal")
	}
	for _, l := range lines {
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewInvalidInput("productId", "el producto "+l.ProductID+" no existe")
		}
		if p.BranchID != branchID {
			return domain.NewInvalidInput("productId", "el producto "+l.ProductID+" no pertenece a la sucursal")
		}
	}
	return nil
}

// Get obtiene una compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponse(p), nil
}

// List lista compras, opcionalmente de una sucursal.
func (uc *UseCase) List(ctx context.Context, branchID string, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	list, err := uc.purchases.List(ctx, branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update solo cambia el estado activo/inactivo; las líneas de una compra recibida no se editan.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status == nil {
		return ToPurchaseResponse(p), nil
	}
	if err := uc.purchases.UpdateStatus(ctx, id, *in.Status); err != nil {
		return nil, err
	}
	p.Status = *in.Status
	p.UpdatedAt = time.Now().UTC()
	return ToPurchaseResponse(p), nil
}

// Delete elimina la compra. Los asientos del libro se conservan como historial.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.purchases.Delete(ctx, id)
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// toLineItems convierte las líneas del request al modelo del calculador.
func toLineItems(items []dto.PurchaseItemRequest) ([]pricing.LineItem, error) {
	out := make([]pricing.LineItem, 0, len(items))
	for _, it := range items {
		kind, err := pricing.ParseDiscountKind(it.DiscountType)
		if err != nil {
			return nil, err
		}
		out = append(out, pricing.LineItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.CostPrice,
			DiscountValue: it.Discount,
			DiscountKind:  kind,
		})
	}
	return out, nil
}

// ToPurchaseResponse mapea la entidad al DTO de salida.
func ToPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			CostPrice:    it.CostPrice,
			Discount:     it.Discount,
			DiscountType: string(it.DiscountType),
			TotalD:       it.TotalD,
			Total:        it.Total,
		})
	}
	return &dto.PurchaseResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		BranchID:    p.BranchID,
		Status:      p.Status,
		TotalAmount: p.TotalAmount,
		Items:       items,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
