package purchasing

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// PurchaseOrderLine línea de la orden con el nombre del producto resuelto.
type PurchaseOrderLine struct {
	entity.PurchaseItem
	ProductName string
	SKU         string
}

// PurchaseOrderDocument datos necesarios para imprimir una orden de compra.
type PurchaseOrderDocument struct {
	Purchase *entity.Purchase
	Supplier *entity.Supplier
	Branch   *entity.Branch
	Lines    []PurchaseOrderLine
}

// PurchaseOrderPDFGenerator puerto de salida para la representación impresa de una compra.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, doc PurchaseOrderDocument) ([]byte, error)
}
