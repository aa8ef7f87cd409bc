package models

import (
	"errors"
	"time"
)

// PaymentProvider selects the payment flow at checkout.
type PaymentProvider string

const (
	ProviderMomo   PaymentProvider = "momo"   // wallet, full-page redirect
	ProviderVietQR PaymentProvider = "vietqr" // bank transfer, QR + verify
)

// ConfirmationWindow is how long a pending payment session stays payable.
// Reaching zero disables verification in the UI; the backend session is not
// cancelled automatically.
const ConfirmationWindow = 15 * time.Minute

// CheckoutSession is the ephemeral record of a payment session in progress.
// It is created when a payment session is requested, held in the visitor's
// session storage, and consumed by the confirmation flow on success or cancel.
type CheckoutSession struct {
	CheckoutID string          `json:"checkout_id"`
	OrderID    string          `json:"order_id"`
	Amount     int64           `json:"amount"` // VND
	Provider   PaymentProvider `json:"provider"`
	PayURL     string          `json:"pay_url,omitempty"`      // momo only
	QRImageURL string          `json:"qr_image_url,omitempty"` // vietqr only
	CreatedAt  time.Time       `json:"created_at"`
}

// Validate checks that the session is usable by a confirmation page.
func (s *CheckoutSession) Validate() error {
	if s.CheckoutID == "" {
		return errors.New("checkout id is required")
	}
	if s.OrderID == "" {
		return errors.New("order id is required")
	}
	if s.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	switch s.Provider {
	case ProviderMomo:
		if s.PayURL == "" {
			return errors.New("pay url is required for momo sessions")
		}
	case ProviderVietQR:
		if s.QRImageURL == "" {
			return errors.New("qr image url is required for vietqr sessions")
		}
	default:
		return errors.New("unknown payment provider")
	}
	return nil
}

// Deadline returns the moment the session stops being payable.
func (s *CheckoutSession) Deadline() time.Time {
	return s.CreatedAt.Add(ConfirmationWindow)
}

// Expired reports whether the confirmation window has elapsed at now.
func (s *CheckoutSession) Expired(now time.Time) bool {
	return now.After(s.Deadline())
}
