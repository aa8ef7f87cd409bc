package backend

import (
	"context"
	"net/http"
)

// PaymentStatus is the backend's view of a payment session.
type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "completed"
	StatusPending   PaymentStatus = "pending"
	StatusFailed    PaymentStatus = "failed"
	StatusCancelled PaymentStatus = "cancelled"
)

// CreatePaymentRequest represents a payment-session creation request.
// BookingID carries the first booking for backend compatibility; BookingIDs
// lists the whole order so multi-item orders are not under-represented.
type CreatePaymentRequest struct {
	BookingID     string   `json:"bookingID"`
	BookingIDs    []string `json:"bookingIDs,omitempty"`
	Amount        int64    `json:"amount"`
	OrderInfo     string   `json:"orderInfo,omitempty"`
	CustomerName  string   `json:"customerName"`
	CustomerEmail string   `json:"customerEmail"`
	CustomerPhone string   `json:"customerPhone,omitempty"`
	PromotionID   string   `json:"promotionID,omitempty"`
}

// PaymentSession is the provider session payload the backend returns.
type PaymentSession struct {
	CheckoutID string `json:"checkoutID"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
	PayURL     string `json:"payUrl,omitempty"`
	QRImageURL string `json:"qrImageUrl,omitempty"`
}

// CreateMomoPayment creates a wallet payment session. The caller redirects
// the customer to the returned pay URL.
func (c *Client) CreateMomoPayment(ctx context.Context, token string, req CreatePaymentRequest) (*PaymentSession, error) {
	var session PaymentSession
	if err := c.do(ctx, http.MethodPost, "/payment/momo/create", token, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateVietQRPayment creates a bank-transfer payment session with a QR image.
func (c *Client) CreateVietQRPayment(ctx context.Context, token string, req CreatePaymentRequest) (*PaymentSession, error) {
	var session PaymentSession
	if err := c.do(ctx, http.MethodPost, "/payment/vietqr/create", token, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// VerifyVietQRPayment asks the backend whether a pending QR payment has been
// received. Any status other than completed means keep waiting.
func (c *Client) VerifyVietQRPayment(ctx context.Context, token, checkoutID, orderID string) (PaymentStatus, error) {
	req := struct {
		CheckoutID string `json:"checkoutID"`
		OrderID    string `json:"orderId"`
	}{CheckoutID: checkoutID, OrderID: orderID}

	var data struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/payment/vietqr/verify", token, req, &data); err != nil {
		return "", err
	}

	switch data.Status {
	case "completed":
		return StatusCompleted, nil
	case "failed":
		return StatusFailed, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return StatusPending, nil
	}
}

// CancelPayment cancels a pending payment session.
func (c *Client) CancelPayment(ctx context.Context, token, checkoutID string) error {
	req := struct {
		CheckoutID string `json:"checkoutID"`
	}{CheckoutID: checkoutID}
	return c.do(ctx, http.MethodPost, "/payment/cancel", token, req, nil)
}
