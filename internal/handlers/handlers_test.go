package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full handler stack against a fake booking backend, the
// same way the server binary does.
type testEnv struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T, backendHandler http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := backend.NewClient(backend.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	service := cart.NewService(client, cart.NewMemoryCache(10*time.Second, nil), cart.NewBus(), logger)

	cartHandler := NewCartHandler(service, store, "session", logger)
	checkoutHandler := NewCheckoutHandler(service, client, store, "session", nil, logger)
	paymentHandler := NewPaymentHandler(client, service, store, "session", nil, 10*time.Millisecond, 50*time.Millisecond, logger)
	bookingsHandler := NewBookingsHandler(client, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithToken)
	r.Get("/cart", cartHandler.ViewCart)
	r.Post("/cart/add", cartHandler.AddToCart)
	r.Post("/cart/remove", cartHandler.RemoveFromCart)
	r.Post("/cart/clear", cartHandler.ClearCart)
	r.Post("/cart/sync", cartHandler.SyncCart)
	r.Get("/checkout", checkoutHandler.ViewCheckout)
	r.Post("/checkout/voucher", checkoutHandler.ApplyVoucher)
	r.Delete("/checkout/voucher", checkoutHandler.RemoveVoucher)
	r.Post("/checkout/pay", checkoutHandler.Pay)
	r.Get("/payment/confirm", paymentHandler.ViewConfirmation)
	r.Get("/payment/wait", paymentHandler.Wait)
	r.Post("/payment/verify", paymentHandler.Verify)
	r.Post("/payment/cancel", paymentHandler.Cancel)
	r.With(middleware.RequireToken).Get("/bookings", bookingsHandler.ListBookings)

	return &testEnv{t: t, router: r}
}

// do performs one request against the handler stack, carrying the cookie
// session between calls like a browser would.
func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()

	var resp apiResponse
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &resp))

	if data != nil && resp.Data != nil {
		payload, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(payload, data))
	}
	return resp
}

// envelope mirrors the booking backend's response wrapper for fakes.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeBackendJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
