package backend

import (
	"context"
	"net/http"

	"tour-booking-platform/internal/models"
)

// ValidatePromotion asks the backend to validate a user-entered promotion
// code. An invalid or expired code comes back as a KindRejected error.
func (c *Client) ValidatePromotion(ctx context.Context, token, code string) (*models.AppliedVoucher, error) {
	req := struct {
		Code string `json:"code"`
	}{Code: code}

	var data struct {
		PromotionID string  `json:"promotionID"`
		Discount    float64 `json:"discount"`
		Description string  `json:"description,omitempty"`
	}
	if err := c.do(ctx, http.MethodPost, "/promotions/validate", token, req, &data); err != nil {
		return nil, err
	}

	voucher := &models.AppliedVoucher{
		PromotionID: data.PromotionID,
		Code:        code,
		DiscountPct: data.Discount,
		Description: data.Description,
	}
	if err := voucher.Validate(); err != nil {
		return nil, &Error{Kind: KindServer, Message: "invalid promotion payload: " + err.Error()}
	}
	return voucher, nil
}
