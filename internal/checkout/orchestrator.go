package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// CartFacade is the slice of the cart service the orchestrator reads through.
type CartFacade interface {
	GetCart(ctx context.Context, token string, local cart.LocalStore) ([]models.CartLineItem, error)
	SyncToServer(ctx context.Context, token string, local cart.LocalStore) (*cart.SyncReport, error)
}

// PaymentBackend is the slice of the booking backend checkout depends on.
type PaymentBackend interface {
	ValidatePromotion(ctx context.Context, token, code string) (*models.AppliedVoucher, error)
	CreateMomoPayment(ctx context.Context, token string, req backend.CreatePaymentRequest) (*backend.PaymentSession, error)
	CreateVietQRPayment(ctx context.Context, token string, req backend.CreatePaymentRequest) (*backend.PaymentSession, error)
}

// Contact carries the customer fields sent with a payment session.
type Contact struct {
	Name  string
	Email string
	Phone string
}

var checkoutEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks the contact fields before they are sent to the backend.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("customer name is required")
	}
	if !checkoutEmailRegex.MatchString(c.Email) {
		return errors.New("a valid customer email is required")
	}
	return nil
}

// Orchestrator turns the current cart into a single payment request: voucher
// on/off, order pricing, provider session creation. One orchestrator serves
// one checkout page instance; the applied voucher is seeded from and written
// back to the visitor's session by the handler.
type Orchestrator struct {
	cart    CartFacade
	backend PaymentBackend
	clock   cart.Clock
	logger  *logrus.Logger
	voucher *models.AppliedVoucher
}

// NewOrchestrator creates a checkout orchestrator. A nil clock means
// wall-clock time.
func NewOrchestrator(facade CartFacade, pb PaymentBackend, clock cart.Clock, logger *logrus.Logger) *Orchestrator {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{cart: facade, backend: pb, clock: clock, logger: logger}
}

// Voucher returns the currently applied voucher, or nil.
func (o *Orchestrator) Voucher() *models.AppliedVoucher {
	return o.voucher
}

// SetVoucher seeds a previously applied voucher.
func (o *Orchestrator) SetVoucher(v *models.AppliedVoucher) {
	o.voucher = v
}

// ApplyVoucher validates a user-entered code against the backend. Success
// replaces the applied voucher. Failure leaves any previously applied voucher
// untouched; only RemoveVoucher clears one.
func (o *Orchestrator) ApplyVoucher(ctx context.Context, token, code string) (*models.AppliedVoucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.ErrVoucherRejected
	}

	voucher, err := o.backend.ValidatePromotion(ctx, token, code)
	if err != nil {
		o.logger.WithError(err).WithField("code", code).Info("voucher validation failed")
		return nil, fmt.Errorf("%w: %s", models.ErrVoucherRejected, userMessage(err))
	}

	o.voucher = voucher
	return voucher, nil
}

// RemoveVoucher explicitly clears the applied voucher.
func (o *Orchestrator) RemoveVoucher() {
	o.voucher = nil
}

// Quote prices the given items under the applied voucher.
func (o *Orchestrator) Quote(items []models.CartLineItem) Quote {
	return QuoteFor(items, o.voucher)
}

// CreatePayment creates a provider payment session for the whole cart.
//
// A cart whose items carry no booking ids yet (the visitor just logged in
// with a guest cart) is synced to the backend exactly once and re-read before
// the session is created, so the guest-to-member transition never blocks
// checkout. Any failure aborts before money is involved and leaves the cart
// untouched for retry.
func (o *Orchestrator) CreatePayment(ctx context.Context, token string, local cart.LocalStore, provider models.PaymentProvider, contact Contact) (*models.CheckoutSession, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	items, err := o.cart.GetCart(ctx, token, local)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	bookingIDs := bookableIDs(items)
	if len(bookingIDs) == 0 {
		report, err := o.cart.SyncToServer(ctx, token, local)
		if err != nil {
			return nil, fmt.Errorf("failed to sync cart before checkout: %w", err)
		}
		o.logger.WithField("pushed", report.Pushed).Info("synced guest cart before checkout")

		items, err = o.cart.GetCart(ctx, token, local)
		if err != nil {
			return nil, err
		}
		bookingIDs = bookableIDs(items)
		if len(bookingIDs) == 0 {
			return nil, models.ErrNoBookableItems
		}
	}

	quote := o.Quote(items)
	req := backend.CreatePaymentRequest{
		BookingID:     bookingIDs[0],
		BookingIDs:    bookingIDs,
		Amount:        quote.Total,
		OrderInfo:     fmt.Sprintf("Tour booking (%d items)", len(items)),
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		CustomerPhone: contact.Phone,
	}
	if o.voucher != nil {
		req.PromotionID = o.voucher.PromotionID
	}

	var session *backend.PaymentSession
	switch provider {
	case models.ProviderMomo:
		session, err = o.backend.CreateMomoPayment(ctx, token, req)
	case models.ProviderVietQR:
		session, err = o.backend.CreateVietQRPayment(ctx, token, req)
	default:
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	cs := &models.CheckoutSession{
		CheckoutID: session.CheckoutID,
		OrderID:    session.OrderID,
		Amount:     quote.Total,
		Provider:   provider,
		PayURL:     session.PayURL,
		QRImageURL: session.QRImageURL,
		CreatedAt:  o.clock(),
	}
	if err := cs.Validate(); err != nil {
		return nil, fmt.Errorf("backend returned an unusable payment session: %w", err)
	}
	return cs, nil
}

func bookableIDs(items []models.CartLineItem) []string {
	var ids []string
	for i := range items {
		if items[i].BookingID != "" {
			ids = append(ids, items[i].BookingID)
		}
	}
	return ids
}

func userMessage(err error) string {
	var be *backend.Error
	if errors.As(err, &be) {
		return be.UserMessage()
	}
	return "Something went wrong. Please try again."
}
