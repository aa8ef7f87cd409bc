package payment

import (
	"context"
	"fmt"
	"time"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// State is the confirmation page's view of a pending payment.
type State string

const (
	// StateAwaitingPayment shows the QR and the countdown.
	StateAwaitingPayment State = "awaiting_payment"
	// StateVerifying is transient while a verify call is in flight.
	StateVerifying State = "verifying"
	// StateCompleted means the backend saw the transfer; the session is
	// consumed and the customer moves on to their bookings.
	StateCompleted State = "completed"
	// StatePending is a verify outcome: payment not received yet, keep
	// waiting. The confirmation stays in StateAwaitingPayment.
	StatePending State = "still_pending"
	// StateCancelled means the customer cancelled the session.
	StateCancelled State = "cancelled"
	// StateExpired means the countdown ran out. Verify is disabled; the
	// backend session is not cancelled automatically.
	StateExpired State = "expired"
)

// Verifier is the slice of the booking backend the confirmation flow needs.
type Verifier interface {
	VerifyVietQRPayment(ctx context.Context, token, checkoutID, orderID string) (backend.PaymentStatus, error)
	CancelPayment(ctx context.Context, token, checkoutID string) error
}

// SessionStore loads and consumes the persisted checkout session.
type SessionStore interface {
	LoadCheckout() (*models.CheckoutSession, error)
	ClearCheckout() error
}

// CartClearer empties the customer's cart once a payment lands.
type CartClearer interface {
	ClearCart(ctx context.Context, token string, local cart.LocalStore) error
}

// Confirmation drives one pending payment through verification. The
// persisted checkout session is consumed exactly once, on completion or
// cancellation; completion also empties the paid-for cart.
type Confirmation struct {
	backend     Verifier
	store       SessionStore
	cart        CartClearer
	local       cart.LocalStore
	session     *models.CheckoutSession
	clock       cart.Clock
	logger      *logrus.Logger
	state       State
	cleared     bool
	cartCleared bool
}

// NewConfirmation loads the pending checkout session and positions the state
// machine. A missing or malformed session returns ErrMissingSession so the
// caller can redirect back to the cart.
func NewConfirmation(v Verifier, store SessionStore, clock cart.Clock, logger *logrus.Logger) (*Confirmation, error) {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	session, err := store.LoadCheckout()
	if err != nil {
		return nil, err
	}

	c := &Confirmation{
		backend: v,
		store:   store,
		session: session,
		clock:   clock,
		logger:  logger,
		state:   StateAwaitingPayment,
	}
	if session.Expired(clock()) {
		c.state = StateExpired
	}
	return c, nil
}

// ClearCartOnCompletion registers the cart façade behind the paid-for cart.
// A completed verify then empties it, exactly once, before the checkout
// session is consumed. Cancellation leaves the cart alone.
func (c *Confirmation) ClearCartOnCompletion(clearer CartClearer, local cart.LocalStore) {
	c.cart = clearer
	c.local = local
}

// Session returns the pending checkout session.
func (c *Confirmation) Session() *models.CheckoutSession {
	return c.session
}

// State returns the current display state, accounting for the countdown.
func (c *Confirmation) State() State {
	if c.state == StateAwaitingPayment && c.session.Expired(c.clock()) {
		c.state = StateExpired
	}
	return c.state
}

// Remaining returns how much of the confirmation window is left.
func (c *Confirmation) Remaining() time.Duration {
	remaining := c.session.Deadline().Sub(c.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Verify asks the backend whether the payment arrived. Completed consumes the
// session and settles the machine; any other status reports StatePending and
// the page keeps waiting with the session intact.
func (c *Confirmation) Verify(ctx context.Context, token string) (State, error) {
	switch c.State() {
	case StateExpired:
		return StateExpired, models.ErrSessionExpired
	case StateCompleted, StateCancelled:
		return c.state, nil
	}

	c.state = StateVerifying
	status, err := c.backend.VerifyVietQRPayment(ctx, token, c.session.CheckoutID, c.session.OrderID)
	if err != nil {
		c.state = StateAwaitingPayment
		return c.state, fmt.Errorf("failed to verify payment: %w", err)
	}

	if status == backend.StatusCompleted {
		c.clearCart(ctx, token)
		c.consumeSession()
		c.state = StateCompleted
		return c.state, nil
	}

	c.logger.WithFields(logrus.Fields{
		"checkout_id": c.session.CheckoutID,
		"status":      status,
	}).Info("payment not received yet")
	c.state = StateAwaitingPayment
	return StatePending, nil
}

// Cancel cancels the pending session on the backend and consumes the local
// one. The caller is responsible for having confirmed the cancellation with
// the customer. Cancel works regardless of the countdown state.
func (c *Confirmation) Cancel(ctx context.Context, token string) error {
	if c.state == StateCompleted || c.state == StateCancelled {
		return nil
	}

	if err := c.backend.CancelPayment(ctx, token, c.session.CheckoutID); err != nil {
		return fmt.Errorf("failed to cancel payment: %w", err)
	}

	c.consumeSession()
	c.state = StateCancelled
	return nil
}

// clearCart empties the paid-for cart. The payment already landed, so a
// failure here is logged rather than surfaced to the customer.
func (c *Confirmation) clearCart(ctx context.Context, token string) {
	if c.cart == nil || c.cartCleared {
		return
	}
	if err := c.cart.ClearCart(ctx, token, c.local); err != nil {
		c.logger.WithError(err).Error("failed to clear cart after completed payment")
		return
	}
	c.cartCleared = true
}

func (c *Confirmation) consumeSession() {
	if c.cleared {
		return
	}
	if err := c.store.ClearCheckout(); err != nil {
		c.logger.WithError(err).Error("failed to clear checkout session")
		return
	}
	c.cleared = true
}
