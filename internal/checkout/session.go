package checkout

import (
	"encoding/json"

	"tour-booking-platform/internal/models"

	"github.com/gorilla/sessions"
)

const (
	sessionCheckoutKey = "checkout_session"
	sessionVoucherKey  = "applied_voucher"
)

// SessionState persists the ephemeral checkout artifacts (pending payment
// session, applied voucher) in the visitor's cookie session. The handler owns
// saving the session back to the response.
type SessionState struct {
	session *sessions.Session
}

// NewSessionState wraps an existing session.
func NewSessionState(session *sessions.Session) *SessionState {
	return &SessionState{session: session}
}

// LoadCheckout returns the pending checkout session. A missing or malformed
// value is ErrMissingSession; the confirmation flow redirects back to the
// cart on that.
func (s *SessionState) LoadCheckout() (*models.CheckoutSession, error) {
	raw, ok := s.session.Values[sessionCheckoutKey].(string)
	if !ok {
		return nil, models.ErrMissingSession
	}

	var cs models.CheckoutSession
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return nil, models.ErrMissingSession
	}
	if err := cs.Validate(); err != nil {
		return nil, models.ErrMissingSession
	}
	return &cs, nil
}

// SaveCheckout stores the pending checkout session.
func (s *SessionState) SaveCheckout(cs *models.CheckoutSession) error {
	raw, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	s.session.Values[sessionCheckoutKey] = string(raw)
	return nil
}

// ClearCheckout removes the pending checkout session.
func (s *SessionState) ClearCheckout() error {
	delete(s.session.Values, sessionCheckoutKey)
	return nil
}

// LoadVoucher returns the currently applied voucher, or nil.
func (s *SessionState) LoadVoucher() *models.AppliedVoucher {
	raw, ok := s.session.Values[sessionVoucherKey].(string)
	if !ok {
		return nil
	}

	var v models.AppliedVoucher
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return &v
}

// SaveVoucher stores the applied voucher.
func (s *SessionState) SaveVoucher(v *models.AppliedVoucher) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.session.Values[sessionVoucherKey] = string(raw)
	return nil
}

// ClearVoucher removes the applied voucher.
func (s *SessionState) ClearVoucher() {
	delete(s.session.Values, sessionVoucherKey)
}
