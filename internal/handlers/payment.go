package handlers

import (
	"net/http"
	"time"

	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/checkout"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/payment"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// PaymentHandler serves the QR confirmation page: countdown state, manual
// verification, long-poll waiting and cancellation of the pending payment
// session.
type PaymentHandler struct {
	backend      payment.Verifier
	cart         payment.CartClearer
	store        sessions.Store
	sessionName  string
	clock        cart.Clock
	pollInterval time.Duration
	pollMax      time.Duration
	logger       *logrus.Logger
}

// NewPaymentHandler creates a new payment confirmation handler. A nil clock
// means wall-clock time; zero poll intervals get the poller defaults.
func NewPaymentHandler(v payment.Verifier, clearer payment.CartClearer, store sessions.Store, sessionName string, clock cart.Clock, pollInterval, pollMax time.Duration, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		backend:      v,
		cart:         clearer,
		store:        store,
		sessionName:  sessionName,
		clock:        clock,
		pollInterval: pollInterval,
		pollMax:      pollMax,
		logger:       logger,
	}
}

func (h *PaymentHandler) confirmation(r *http.Request) (*sessions.Session, *payment.Confirmation, error) {
	session, _ := h.store.Get(r, h.sessionName)
	state := checkout.NewSessionState(session)

	conf, err := payment.NewConfirmation(h.backend, state, h.clock, h.logger)
	if err != nil {
		return session, nil, err
	}
	conf.ClearCartOnCompletion(h.cart, cart.NewSessionStore(session))
	return session, conf, nil
}

type confirmationResponse struct {
	State            payment.State `json:"state"`
	RemainingSeconds int           `json:"remaining_seconds"`
	CheckoutID       string        `json:"checkout_id"`
	OrderID          string        `json:"order_id"`
	Amount           int64         `json:"amount"`
	Provider         string        `json:"provider"`
	PayURL           string        `json:"pay_url,omitempty"`
	QRImageURL       string        `json:"qr_image_url,omitempty"`
	ExpiresAt        string        `json:"expires_at"`
}

func newConfirmationResponse(conf *payment.Confirmation, state payment.State) confirmationResponse {
	cs := conf.Session()
	return confirmationResponse{
		State:            state,
		RemainingSeconds: int(conf.Remaining().Seconds()),
		CheckoutID:       cs.CheckoutID,
		OrderID:          cs.OrderID,
		Amount:           cs.Amount,
		Provider:         string(cs.Provider),
		PayURL:           cs.PayURL,
		QRImageURL:       cs.QRImageURL,
		ExpiresAt:        cs.Deadline().UTC().Format(timeFormat),
	}
}

// ViewConfirmation returns the pending payment session and how much of the
// confirmation window is left.
func (h *PaymentHandler) ViewConfirmation(w http.ResponseWriter, r *http.Request) {
	_, conf, err := h.confirmation(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newConfirmationResponse(conf, conf.State()))
}

// Verify asks the backend whether the transfer arrived. Completion consumes
// the payment session; anything else keeps the page waiting.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, conf, err := h.confirmation(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	state, err := conf.Verify(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}
	respondData(w, http.StatusOK, newConfirmationResponse(conf, state))
}

// Wait long-polls the payment until it settles, the confirmation window
// expires, or the client goes away. It verifies on an exponential backoff so
// the frontend does not have to.
func (h *PaymentHandler) Wait(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, conf, err := h.confirmation(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	poller := payment.NewPoller(conf, h.pollInterval, h.pollMax)
	state, err := poller.Run(r.Context(), token)
	if err != nil {
		// Client disconnected; nothing left to answer.
		h.logger.WithError(err).Debug("payment wait aborted")
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}
	respondData(w, http.StatusOK, newConfirmationResponse(conf, state))
}

// Cancel cancels the pending payment session, on the backend and locally.
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, conf, err := h.confirmation(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := conf.Cancel(r.Context(), token); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}
	respondData(w, http.StatusOK, newConfirmationResponse(conf, conf.State()))
}
