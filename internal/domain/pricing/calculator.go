// Package pricing calcula totales de líneas de compra/traslado (cantidad × precio − descuento).
//
// Todas las operaciones son puras: sin estado compartido, sin E/S. Los montos se manejan con
// decimal base 10 y solo se redondean en el borde de presentación (RoundForDisplay).
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/domain"
)

// DiscountKind tipo de descuento aplicado a una línea.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// ParseDiscountKind valida el tipo de descuento recibido del cliente.
func ParseDiscountKind(s string) (DiscountKind, error) {
	switch DiscountKind(s) {
	case DiscountPercentage, DiscountFixed:
		return DiscountKind(s), nil
	}
	return "", domain.NewInvalidInput("discountType", "debe ser percentage o fixed")
}

// LineItem una línea de compra o traslado.
type LineItem struct {
	ProductID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	DiscountValue decimal.Decimal
	DiscountKind  DiscountKind
}

// Breakdown desglose de una línea.
type Breakdown struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Policy reglas configurables del calculador.
type Policy struct {
	// MaxPercentage tope del descuento porcentual (por defecto 100).
	MaxPercentage decimal.Decimal
}

// DefaultPolicy rechaza descuentos porcentuales mayores a 100.
func DefaultPolicy() Policy {
	return Policy{MaxPercentage: hundred}
}

// Calculator aplica Policy a líneas. El valor cero usa DefaultPolicy.
type Calculator struct {
	policy Policy
}

// NewCalculator construye el calculador con la política dada.
func NewCalculator(p Policy) Calculator {
	if p.MaxPercentage.IsZero() || p.MaxPercentage.IsNegative() {
		p = DefaultPolicy()
	}
	return Calculator{policy: p}
}

func (c Calculator) maxPercentage() decimal.Decimal {
	if c.policy.MaxPercentage.IsZero() {
		return hundred
	}
	return c.policy.MaxPercentage
}

// Validate verifica las restricciones de entrada de una línea.
func (c Calculator) Validate(item LineItem) error {
	if item.Quantity < 0 {
		return domain.NewInvalidInput("quantity", "no puede ser negativa")
	}
	if item.UnitPrice.IsNegative() {
		return domain.NewInvalidInput("unitPrice", "no puede ser negativo")
	}
	if item.DiscountValue.IsNegative() {
		return domain.NewInvalidInput("discount", "no puede ser negativo")
	}
	switch item.DiscountKind {
	case DiscountPercentage:
		if item.DiscountValue.GreaterThan(c.maxPercentage()) {
			return domain.NewInvalidInput("discount", "porcentaje supera el máximo permitido ("+c.maxPercentage().String()+")")
		}
	case DiscountFixed:
	default:
		return domain.NewInvalidInput("discountType", "debe ser percentage o fixed")
	}
	return nil
}

// Breakdown calcula subtotal, descuento y total de la línea. El total nunca es negativo.
func (c Calculator) Breakdown(item LineItem) (Breakdown, error) {
	if err := c.Validate(item); err != nil {
		return Breakdown{}, err
	}
	subtotal := decimal.NewFromInt(item.Quantity).Mul(item.UnitPrice)
	discount := item.DiscountValue
	if item.DiscountKind == DiscountPercentage {
		discount = subtotal.Mul(item.DiscountValue).Div(hundred)
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Breakdown{Subtotal: subtotal, DiscountAmount: discount, LineTotal: total}, nil
}

// ComputeLineTotal devuelve el total con descuento de la línea.
func (c Calculator) ComputeLineTotal(item LineItem) (decimal.Decimal, error) {
	b, err := c.Breakdown(item)
	if err != nil {
		return decimal.Zero, err
	}
	return b.LineTotal, nil
}

// ComputeOrderTotal suma ComputeLineTotal sobre todas las líneas; vacío = 0.
// Falla con la primera línea inválida.
func (c Calculator) ComputeOrderTotal(items []LineItem) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, it := range items {
		t, err := c.ComputeLineTotal(it)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(t)
	}
	return sum, nil
}

// ComputeLineTotal con DefaultPolicy.
func ComputeLineTotal(item LineItem) (decimal.Decimal, error) {
	return Calculator{}.ComputeLineTotal(item)
}

// ComputeOrderTotal con DefaultPolicy.
func ComputeOrderTotal(items []LineItem) (decimal.Decimal, error) {
	return Calculator{}.ComputeOrderTotal(items)
}

// RoundForDisplay redondea a 2 decimales (half away from zero). Usar solo al presentar o enviar.
func RoundForDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
