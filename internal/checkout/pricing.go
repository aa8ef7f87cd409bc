package checkout

import (
	"math"

	"tour-booking-platform/internal/models"
)

// Quote is the priced view of an order. All amounts are VND.
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Subtotal sums the precomputed discounted prices of the line items.
func Subtotal(items []models.CartLineItem) int64 {
	var sum int64
	for i := range items {
		sum += items[i].DiscountedPrice
	}
	return sum
}

// DiscountAmount applies the voucher percentage to the whole order. The
// discount is global, never split per line item. No voucher means zero.
func DiscountAmount(subtotal int64, voucher *models.AppliedVoucher) int64 {
	if voucher == nil || subtotal <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotal) * voucher.DiscountPct / 100))
}

// QuoteFor prices the order: total = subtotal - discount.
func QuoteFor(items []models.CartLineItem, voucher *models.AppliedVoucher) Quote {
	subtotal := Subtotal(items)
	discount := DiscountAmount(subtotal, voucher)
	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}
