package handlers

import (
	"net/http"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/checkout"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// CheckoutHandler serves the checkout page data, voucher application and
// payment session creation. Each request gets its own orchestrator, seeded
// with the voucher persisted in the visitor's session.
type CheckoutHandler struct {
	service     *cart.Service
	backend     *backend.Client
	store       sessions.Store
	sessionName string
	clock       cart.Clock
	logger      *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler. A nil clock means
// wall-clock time.
func NewCheckoutHandler(service *cart.Service, client *backend.Client, store sessions.Store, sessionName string, clock cart.Clock, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:     service,
		backend:     client,
		store:       store,
		sessionName: sessionName,
		clock:       clock,
		logger:      logger,
	}
}

func (h *CheckoutHandler) open(r *http.Request) (*sessions.Session, *checkout.SessionState, *checkout.Orchestrator) {
	session, _ := h.store.Get(r, h.sessionName)
	state := checkout.NewSessionState(session)

	o := checkout.NewOrchestrator(h.service, h.backend, h.clock, h.logger)
	o.SetVoucher(state.LoadVoucher())
	return session, state, o
}

type quotePayload struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

type checkoutResponse struct {
	Items   []models.CartLineItem  `json:"items"`
	Voucher *models.AppliedVoucher `json:"voucher,omitempty"`
	Quote   quotePayload           `json:"quote"`
}

func newCheckoutResponse(items []models.CartLineItem, voucher *models.AppliedVoucher, q checkout.Quote) checkoutResponse {
	if items == nil {
		items = []models.CartLineItem{}
	}
	return checkoutResponse{
		Items:   items,
		Voucher: voucher,
		Quote:   quotePayload{Subtotal: q.Subtotal, Discount: q.Discount, Total: q.Total},
	}
}

// ViewCheckout returns the priced cart under the currently applied voucher.
func (h *CheckoutHandler) ViewCheckout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, _, o := h.open(r)
	local := cart.NewSessionStore(session)

	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCheckoutResponse(items, o.Voucher(), o.Quote(items)))
}

type applyVoucherRequest struct {
	Code string `json:"code"`
}

// ApplyVoucher validates a voucher code and, on success, persists it for the
// rest of the checkout. A rejected code leaves any earlier voucher applied.
func (h *CheckoutHandler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	var req applyVoucherRequest
	if err := decodeJSON(r, &req); err != nil || req.Code == "" {
		respondBadRequest(w, "code is required")
		return
	}

	token := middleware.GetTokenFromContext(r.Context())
	session, state, o := h.open(r)

	voucher, err := o.ApplyVoucher(r.Context(), token, req.Code)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := state.SaveVoucher(voucher); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}

	local := cart.NewSessionStore(session)
	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCheckoutResponse(items, voucher, o.Quote(items)))
}

// RemoveVoucher clears the applied voucher.
func (h *CheckoutHandler) RemoveVoucher(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, state, o := h.open(r)

	o.RemoveVoucher()
	state.ClearVoucher()
	if !saveSession(w, r, session, h.logger) {
		return
	}

	local := cart.NewSessionStore(session)
	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCheckoutResponse(items, nil, o.Quote(items)))
}

type payRequest struct {
	Provider      string `json:"provider"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type paySessionResponse struct {
	CheckoutID string `json:"checkout_id"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	Provider   string `json:"provider"`
	PayURL     string `json:"pay_url,omitempty"`
	QRImageURL string `json:"qr_image_url,omitempty"`
	ExpiresAt  string `json:"expires_at"`
}

// Pay creates a provider payment session for the whole cart and persists it
// for the confirmation page.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	provider := models.PaymentProvider(req.Provider)
	if provider != models.ProviderMomo && provider != models.ProviderVietQR {
		respondBadRequest(w, "provider must be momo or vietqr")
		return
	}

	token := middleware.GetTokenFromContext(r.Context())
	session, state, o := h.open(r)
	local := cart.NewSessionStore(session)

	contact := checkout.Contact{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	}
	if err := contact.Validate(); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	cs, err := o.CreatePayment(r.Context(), token, local, provider, contact)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := state.SaveCheckout(cs); err != nil {
		respondError(w, h.logger, err)
		return
	}
	// The voucher was spent on this payment session; the next checkout
	// starts fresh.
	state.ClearVoucher()
	if !saveSession(w, r, session, h.logger) {
		return
	}

	respondData(w, http.StatusCreated, paySessionResponse{
		CheckoutID: cs.CheckoutID,
		OrderID:    cs.OrderID,
		Amount:     cs.Amount,
		Provider:   string(cs.Provider),
		PayURL:     cs.PayURL,
		QRImageURL: cs.QRImageURL,
		ExpiresAt:  cs.Deadline().UTC().Format(timeFormat),
	})
}
