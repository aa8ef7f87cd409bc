package checkout

import (
	"testing"

	"tour-booking-platform/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFor_NoVoucher(t *testing.T) {
	items := []models.CartLineItem{
		{TourID: "tour-1", DiscountedPrice: 1000000},
	}

	quote := QuoteFor(items, nil)
	assert.Equal(t, int64(1000000), quote.Subtotal)
	assert.Equal(t, int64(0), quote.Discount, "no voucher means zero discount")
	assert.Equal(t, int64(1000000), quote.Total)
}

func TestQuoteFor_TenPercentVoucher(t *testing.T) {
	items := []models.CartLineItem{
		{TourID: "tour-1", DiscountedPrice: 1000000},
	}
	voucher := &models.AppliedVoucher{PromotionID: "promo-1", Code: "SUMMER10", DiscountPct: 10}

	quote := QuoteFor(items, voucher)
	assert.Equal(t, int64(1000000), quote.Subtotal)
	assert.Equal(t, int64(100000), quote.Discount)
	assert.Equal(t, int64(900000), quote.Total)
}

func TestQuoteFor_MultipleItemsGlobalDiscount(t *testing.T) {
	items := []models.CartLineItem{
		{TourID: "tour-1", DiscountedPrice: 1500000},
		{TourID: "tour-2", DiscountedPrice: 500000},
		{TourID: "tour-3", DiscountedPrice: 250000},
	}
	voucher := &models.AppliedVoucher{PromotionID: "promo-2", Code: "VIP20", DiscountPct: 20}

	quote := QuoteFor(items, voucher)
	assert.Equal(t, int64(2250000), quote.Subtotal)
	assert.Equal(t, int64(450000), quote.Discount, "discount applies to the order, not per item")
	assert.Equal(t, quote.Subtotal-quote.Discount, quote.Total)
}

func TestQuoteFor_TotalIdentity(t *testing.T) {
	// total = subtotal - discount must hold for any non-negative inputs
	cases := []struct {
		prices []int64
		pct    float64
	}{
		{[]int64{}, 10},
		{[]int64{1}, 33},
		{[]int64{999999, 1}, 50},
		{[]int64{100000, 200000, 300000}, 0},
		{[]int64{750000}, 100},
	}

	for _, tc := range cases {
		var items []models.CartLineItem
		for _, p := range tc.prices {
			items = append(items, models.CartLineItem{DiscountedPrice: p})
		}
		voucher := &models.AppliedVoucher{PromotionID: "p", Code: "c", DiscountPct: tc.pct}

		quote := QuoteFor(items, voucher)
		assert.Equal(t, quote.Subtotal-quote.Discount, quote.Total)
		assert.GreaterOrEqual(t, quote.Discount, int64(0))
		assert.LessOrEqual(t, quote.Discount, quote.Subtotal)
	}
}

func TestDiscountAmount_EmptyCart(t *testing.T) {
	voucher := &models.AppliedVoucher{PromotionID: "p", Code: "c", DiscountPct: 10}
	assert.Equal(t, int64(0), DiscountAmount(0, voucher))
}
