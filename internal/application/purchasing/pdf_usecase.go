package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// PDFUseCase genera la orden de compra imprimible.
type PDFUseCase struct {
	purchases repository.PurchaseRepository
	suppliers repository.SupplierRepository
	branches  repository.BranchRepository
	products  repository.ProductRepository
	generator PurchaseOrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	purchases repository.PurchaseRepository,
	suppliers repository.SupplierRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	generator PurchaseOrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		purchases: purchases,
		suppliers: suppliers,
		branches:  branches,
		products:  products,
		generator: generator,
	}
}

// DownloadPurchaseOrder carga la compra, su proveedor, sucursal y nombres de producto y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound si la compra no existe.
func (uc *PDFUseCase) DownloadPurchaseOrder(ctx context.Context, purchaseID string) (pdfBytes []byte, filename string, err error) {
	p, err := uc.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener compra: %w", err)
	}
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	supplier, err := uc.suppliers.GetByID(ctx, p.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	branch, err := uc.branches.GetByID(ctx, p.BranchID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener sucursal: %w", err)
	}

	lines := make([]PurchaseOrderLine, 0, len(p.Items))
	for _, it := range p.Items {
		line := PurchaseOrderLine{PurchaseItem: it, ProductName: "Producto " + it.ProductID}
		if product, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && product != nil {
			line.ProductName = product.Name
			line.SKU = product.SKU
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GeneratePurchaseOrderPDF(ctx, PurchaseOrderDocument{
		Purchase: p,
		Supplier: supplier,
		Branch:   branch,
		Lines:    lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := p.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("orden_compra_%s.pdf", short), nil
}
