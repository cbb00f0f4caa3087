package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
)

// Purchase representa la cabecera de una compra a proveedor.
type Purchase struct {
	ID          string
	SupplierID  string
	BranchID    string
	Status      bool            // activa / inactiva
	TotalAmount decimal.Decimal // suma de los totales de línea, redondeada a 2 decimales
	Items       []PurchaseItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseItem línea de detalle de una compra.
// TotalD y Total se guardan redondeados; el cálculo interno no redondea.
type PurchaseItem struct {
	ID           string
	PurchaseID   string
	ProductID    string
	Quantity     int64
	CostPrice    decimal.Decimal
	Discount     decimal.Decimal
	DiscountType pricing.DiscountKind
	TotalD       decimal.Decimal // monto con descuento
	Total        decimal.Decimal // total de la línea
}

// LineItem convierte la línea al modelo del calculador.
func (it PurchaseItem) LineItem() pricing.LineItem {
	return pricing.LineItem{
		ProductID:     it.ProductID,
		Quantity:      it.Quantity,
		UnitPrice:     it.CostPrice,
		DiscountValue: it.Discount,
		DiscountKind:  it.DiscountType,
	}
}

// NewPurchase construye una compra activa y calcula los totales con calc.
// Los totales enviados por el cliente nunca se usan.
func NewPurchase(id, supplierID, branchID string, lines []pricing.LineItem, calc pricing.Calculator, now time.Time) (*Purchase, error) {
	if err := requireFields(field{"supplierId", supplierID}, field{"branchId", branchID}); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.NewInvalidInput("items", "debe tener al menos una línea")
	}
	p := &Purchase{
		ID:         id,
		SupplierID: supplierID,
		BranchID:   branchID,
		Status:     true,
		Items:      make([]PurchaseItem, 0, len(lines)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, domain.NewInvalidInput("productId", "es requerido")
		}
		if l.Quantity <= 0 {
			return nil, domain.NewInvalidInput("quantity", "debe ser mayor que cero")
		}
		b, err := calc.Breakdown(l)
		if err != nil {
			return nil, err
		}
		p.Items = append(p.Items, PurchaseItem{
			PurchaseID:   id,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			CostPrice:    l.UnitPrice,
			Discount:     l.DiscountValue,
			DiscountType: l.DiscountKind,
			TotalD:       pricing.RoundForDisplay(b.LineTotal),
			Total:        pricing.RoundForDisplay(b.LineTotal),
		})
	}
	total, err := calc.ComputeOrderTotal(lines)
	if err != nil {
		return nil, err
	}
	p.TotalAmount = pricing.RoundForDisplay(total)
	return p, nil
}
