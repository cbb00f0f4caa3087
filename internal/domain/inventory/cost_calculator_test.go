package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sucursales-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_WeightedAverage(t *testing.T) {
	// 10 u a 100 + 10 u a 200 = 150
	got := inventory.CostCalculator(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), got.String())
}

func TestCostCalculator_NoPreviousStock(t *testing.T) {
	got := inventory.CostCalculator(d("0"), d("999"), d("5"), d("12.5"))
	assert.True(t, got.Equal(d("12.5")), got.String())

	// stock negativo se trata como cero
	got = inventory.CostCalculator(d("-3"), d("999"), d("5"), d("12.5"))
	assert.True(t, got.Equal(d("12.5")), got.String())
}

func TestCostCalculator_ZeroQuantities(t *testing.T) {
	got := inventory.CostCalculator(d("0"), d("10"), d("0"), d("10"))
	assert.True(t, got.IsZero())
}

func TestUnitCost(t *testing.T) {
	assert.True(t, inventory.UnitCost(d("18"), 2).Equal(d("9")))
	assert.True(t, inventory.UnitCost(d("18"), 0).IsZero())
}
