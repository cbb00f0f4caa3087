package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain"
)

// Product representa un producto o SKU de una sucursal.
// Cost es promedio ponderado, lo recalculan las compras; Stock se maneja por sucursal en Stock.
type Product struct {
	ID         string
	BranchID   string
	Name       string
	SKU        string // único por sucursal
	Barcode    string
	CategoryID string
	Price      decimal.Decimal // precio de venta
	Cost       decimal.Decimal // costo promedio ponderado
	Unit       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate verifica campos obligatorios y montos no negativos.
func (p *Product) Validate() error {
	if err := requireFields(
		field{"branchId", p.BranchID},
		field{"name", p.Name},
		field{"sku", p.SKU},
		field{"unit", p.Unit},
	); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return domain.NewInvalidInput("price", "no puede ser negativo")
	}
	if p.Cost.IsNegative() {
		return domain.NewInvalidInput("cost", "no puede ser negativo")
	}
	return nil
}
