package models

import "errors"

// AppliedVoucher is a promotion code the backend has accepted for the current
// checkout. It lives only for the lifetime of the checkout page; navigating
// away discards it.
type AppliedVoucher struct {
	PromotionID string  `json:"promotion_id"`
	Code        string  `json:"code"`
	DiscountPct float64 `json:"discount_pct"`
	Description string  `json:"description,omitempty"`
}

// Validate checks the voucher fields returned by the backend.
func (v *AppliedVoucher) Validate() error {
	if v.PromotionID == "" {
		return errors.New("promotion id is required")
	}
	if v.Code == "" {
		return errors.New("voucher code is required")
	}
	if v.DiscountPct < 0 || v.DiscountPct > 100 {
		return errors.New("discount percentage must be between 0 and 100")
	}
	return nil
}
