package pricing_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/pricing"
)

func line(qty int64, price, discount string, kind pricing.DiscountKind) pricing.LineItem {
	return pricing.LineItem{
		ProductID:     "p1",
		Quantity:      qty,
		UnitPrice:     decimal.RequireFromString(price),
		DiscountValue: decimal.RequireFromString(discount),
		DiscountKind:  kind,
	}
}

func TestComputeLineTotal_Percentage(t *testing.T) {
	total, err := pricing.ComputeLineTotal(line(2, "10", "10", pricing.DiscountPercentage))
	require.NoError(t, err)
	assert.Equal(t, "18.00", pricing.RoundForDisplay(total).StringFixed(2))
}

func TestComputeLineTotal_Fixed(t *testing.T) {
	total, err := pricing.ComputeLineTotal(line(2, "10", "5", pricing.DiscountFixed))
	require.NoError(t, err)
	assert.Equal(t, "15.00", pricing.RoundForDisplay(total).StringFixed(2))
}

func TestComputeLineTotal_FixedDiscountClampedToZero(t *testing.T) {
	total, err := pricing.ComputeLineTotal(line(1, "10", "25", pricing.DiscountFixed))
	require.NoError(t, err)
	assert.True(t, total.IsZero(), total.String())
}

func TestComputeLineTotal_HundredPercentIsZero(t *testing.T) {
	total, err := pricing.ComputeLineTotal(line(3, "7.5", "100", pricing.DiscountPercentage))
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestComputeLineTotal_ZeroQuantity(t *testing.T) {
	total, err := pricing.ComputeLineTotal(line(0, "10", "0", pricing.DiscountFixed))
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestComputeLineTotal_InvalidInput(t *testing.T) {
	cases := map[string]pricing.LineItem{
		"cantidad negativa":   line(-1, "10", "0", pricing.DiscountFixed),
		"precio negativo":     line(1, "-10", "0", pricing.DiscountFixed),
		"descuento negativo":  line(1, "10", "-1", pricing.DiscountFixed),
		"porcentaje > 100":    line(1, "10", "100.01", pricing.DiscountPercentage),
		"tipo de descuento":   {ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(1), DiscountKind: "bogus"},
	}
	for name, item := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pricing.ComputeLineTotal(item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), err.Error())
			var ie *domain.InvalidInputError
			assert.True(t, errors.As(err, &ie))
		})
	}
}

func TestComputeLineTotal_QuantityMinusOneField(t *testing.T) {
	_, err := pricing.ComputeLineTotal(line(-1, "10", "0", pricing.DiscountPercentage))
	var ie *domain.InvalidInputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "quantity", ie.Field)
}

func TestComputeOrderTotal_Empty(t *testing.T) {
	total, err := pricing.ComputeOrderTotal(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestComputeOrderTotal_EqualsSumOfLines(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 25; n++ {
		items := make([]pricing.LineItem, n)
		sum := decimal.Zero
		for i := range items {
			kind := pricing.DiscountFixed
			disc := decimal.NewFromInt(r.Int63n(50))
			if r.Intn(2) == 0 {
				kind = pricing.DiscountPercentage
				disc = decimal.NewFromInt(r.Int63n(101))
			}
			items[i] = pricing.LineItem{
				ProductID:     "p",
				Quantity:      r.Int63n(100),
				UnitPrice:     decimal.New(r.Int63n(1_000_000), -2),
				DiscountValue: disc,
				DiscountKind:  kind,
			}
			lt, err := pricing.ComputeLineTotal(items[i])
			require.NoError(t, err)
			sum = sum.Add(lt)
		}
		total, err := pricing.ComputeOrderTotal(items)
		require.NoError(t, err)
		assert.True(t, total.Equal(sum), "n=%d total=%s sum=%s", n, total, sum)
	}
}

func TestComputeOrderTotal_FailsOnFirstInvalidLine(t *testing.T) {
	_, err := pricing.ComputeOrderTotal([]pricing.LineItem{
		line(1, "10", "0", pricing.DiscountFixed),
		line(-1, "10", "0", pricing.DiscountFixed),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeLineTotal_Monotonic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		qty := r.Int63n(10_000)
		price := decimal.New(r.Int63n(10_000_000), -2) // [0, 100000)
		for _, kind := range []pricing.DiscountKind{pricing.DiscountPercentage, pricing.DiscountFixed} {
			disc := decimal.NewFromInt(r.Int63n(101))
			base := pricing.LineItem{Quantity: qty, UnitPrice: price, DiscountValue: disc, DiscountKind: kind}

			moreQty := base
			moreQty.Quantity++
			morePrice := base
			morePrice.UnitPrice = price.Add(decimal.NewFromFloat(0.5))

			t0, err := pricing.ComputeLineTotal(base)
			require.NoError(t, err)
			t1, err := pricing.ComputeLineTotal(moreQty)
			require.NoError(t, err)
			t2, err := pricing.ComputeLineTotal(morePrice)
			require.NoError(t, err)

			assert.True(t, t1.GreaterThanOrEqual(t0), "cantidad %d→%d: %s < %s", qty, qty+1, t1, t0)
			assert.True(t, t2.GreaterThanOrEqual(t0), "precio %s: %s < %s", price, t2, t0)
		}
	}
}

func TestCalculator_CustomPolicy(t *testing.T) {
	calc := pricing.NewCalculator(pricing.Policy{MaxPercentage: decimal.NewFromInt(50)})

	_, err := calc.ComputeLineTotal(line(1, "10", "60", pricing.DiscountPercentage))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	total, err := calc.ComputeLineTotal(line(1, "10", "50", pricing.DiscountPercentage))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(5)))

	// política inválida cae a la de por defecto
	def := pricing.NewCalculator(pricing.Policy{})
	_, err = def.ComputeLineTotal(line(1, "10", "100", pricing.DiscountPercentage))
	assert.NoError(t, err)
}

func TestBreakdown(t *testing.T) {
	b, err := pricing.Calculator{}.Breakdown(line(3, "3.333", "10", pricing.DiscountPercentage))
	require.NoError(t, err)
	assert.Equal(t, "9.999", b.Subtotal.String())
	assert.Equal(t, "0.9999", b.DiscountAmount.String())
	assert.Equal(t, "8.9991", b.LineTotal.String())
	assert.Equal(t, "9.00", pricing.RoundForDisplay(b.LineTotal).StringFixed(2))
}

func TestParseDiscountKind(t *testing.T) {
	k, err := pricing.ParseDiscountKind("fixed")
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountFixed, k)

	_, err = pricing.ParseDiscountKind("PERCENT")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
