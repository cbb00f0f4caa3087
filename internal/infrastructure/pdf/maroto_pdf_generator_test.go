package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/purchasing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"18":        "18,00",
		"25000":     "25.000,00",
		"1234567.5": "1.234.567,50",
		"-1500.25":  "-1.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestDiscountLabel(t *testing.T) {
	assert.Equal(t, "—", discountLabel(decimal.Zero, pricing.DiscountFixed))
	assert.Equal(t, "10%", discountLabel(decimal.NewFromInt(10), pricing.DiscountPercentage))
	assert.Equal(t, "$5,00", discountLabel(decimal.NewFromInt(5), pricing.DiscountFixed))
}

func TestGeneratePurchaseOrderPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	p := &entity.Purchase{
		ID:          "5f1c0e2a-8d4b-4a7e-9c11-0d2f6b3a9e77",
		SupplierID:  "s1",
		BranchID:    "b1",
		Status:      true,
		TotalAmount: decimal.RequireFromString("18.00"),
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	doc := purchasing.PurchaseOrderDocument{
		Purchase: p,
		Supplier: &entity.Supplier{Name: "Distribuidora Andina", Phone: "3001234567", Address: "Cra 1"},
		Branch:   &entity.Branch{Name: "Centro", Code: "CTR"},
		Lines: []purchasing.PurchaseOrderLine{{
			PurchaseItem: entity.PurchaseItem{
				ProductID:    "p1",
				Quantity:     2,
				CostPrice:    decimal.NewFromInt(10),
				Discount:     decimal.NewFromInt(10),
				DiscountType: pricing.DiscountPercentage,
				Total:        decimal.RequireFromString("18.00"),
			},
			ProductName: "Arroz 500g",
			SKU:         "ARZ-500",
		}},
	}

	out, err := g.GeneratePurchaseOrderPDF(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGeneratePurchaseOrderPDF_RequiresPurchase(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GeneratePurchaseOrderPDF(context.Background(), purchasing.PurchaseOrderDocument{})
	assert.Error(t, err)
}
