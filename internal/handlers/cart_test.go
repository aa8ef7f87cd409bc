package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCart_GuestEmpty(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	rec := env.do(http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data cartResponse
	resp := decodeResponse(t, rec, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, data.Count)
	assert.Empty(t, data.Items)
}

func TestAddToCart_GuestPersistsAcrossRequests(t *testing.T) {
	// The backend must never be called for a guest.
	backendHits := 0
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		http.NotFound(w, r)
	}))

	rec := env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id":          "tour-1",
		"date":             "2026-09-10",
		"adults":           2,
		"children":         1,
		"title":            "Ha Long Bay Cruise",
		"original_price":   1500000,
		"discounted_price": 1200000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data cartResponse
	decodeResponse(t, rec, &data)
	require.Equal(t, 1, data.Count)
	assert.Equal(t, "tour-1", data.Items[0].TourID)
	assert.Equal(t, "Ha Long Bay Cruise", data.Items[0].Title)
	assert.Equal(t, int64(1200000), data.Items[0].DiscountedPrice)

	// A second request with the returned cookie sees the same cart.
	rec = env.do(http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResponse(t, rec, &data)
	assert.Equal(t, 1, data.Count)

	assert.Zero(t, backendHits)
}

func TestAddToCart_GuestUpsertsSameDeparture(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	body := map[string]interface{}{
		"tour_id": "tour-1",
		"date":    "2026-09-10",
		"adults":  2,
	}
	env.do(http.MethodPost, "/cart/add", "", body)

	body["adults"] = 4
	rec := env.do(http.MethodPost, "/cart/add", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var data cartResponse
	decodeResponse(t, rec, &data)
	require.Equal(t, 1, data.Count)
	assert.Equal(t, 4, data.Items[0].Adults)
}

func TestAddToCart_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing tour", map[string]interface{}{"date": "2026-09-10", "adults": 1}},
		{"missing date", map[string]interface{}{"tour_id": "tour-1", "adults": 1}},
		{"zero adults", map[string]interface{}{"tour_id": "tour-1", "date": "2026-09-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/cart/add", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddToCart_MemberCreatesBooking(t *testing.T) {
	var created bool
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/cart":
			created = true
			require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			writeBackendJSON(w, http.StatusCreated, envelope{Success: true, Data: map[string]interface{}{
				"bookingID":   "bk-1",
				"tourID":      "tour-1",
				"bookingDate": "2026-09-10",
				"numAdults":   2,
			}})
		case r.Method == http.MethodGet && r.URL.Path == "/cart":
			writeBackendJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]interface{}{
				"items": []map[string]interface{}{{
					"bookingID":   "bk-1",
					"tourID":      "tour-1",
					"bookingDate": "2026-09-10",
					"numAdults":   2,
				}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))

	rec := env.do(http.MethodPost, "/cart/add", "token-1", map[string]interface{}{
		"tour_id": "tour-1",
		"date":    "2026-09-10",
		"adults":  2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, created)

	var data cartResponse
	decodeResponse(t, rec, &data)
	require.Equal(t, 1, data.Count)
	assert.Equal(t, "bk-1", data.Items[0].BookingID)
}

func TestRemoveFromCart_Guest(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-1", "date": "2026-09-10", "adults": 2,
	})
	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-2", "date": "2026-09-11", "adults": 1,
	})

	rec := env.do(http.MethodPost, "/cart/remove", "", map[string]interface{}{"id": "tour-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var data cartResponse
	decodeResponse(t, rec, &data)
	require.Equal(t, 1, data.Count)
	assert.Equal(t, "tour-2", data.Items[0].TourID)
}

func TestRemoveFromCart_UnknownItem(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	rec := env.do(http.MethodPost, "/cart/remove", "", map[string]interface{}{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart_Guest(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())

	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-1", "date": "2026-09-10", "adults": 2,
	})
	rec := env.do(http.MethodPost, "/cart/clear", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/cart", "", nil)
	var data cartResponse
	decodeResponse(t, rec, &data)
	assert.Equal(t, 0, data.Count)
}

func TestSyncCart_PushesGuestItems(t *testing.T) {
	var created int
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/cart" {
			created++
			writeBackendJSON(w, http.StatusCreated, envelope{Success: true, Data: map[string]interface{}{
				"bookingID": "bk-1",
				"tourID":    "tour-1",
			}})
			return
		}
		http.NotFound(w, r)
	}))

	// Build the guest cart first, then log in and sync.
	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-1", "date": "2026-09-10", "adults": 2,
	})
	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-2", "date": "2026-09-11", "adults": 1,
	})

	rec := env.do(http.MethodPost, "/cart/sync", "token-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data syncResponse
	decodeResponse(t, rec, &data)
	assert.Equal(t, 2, data.Pushed)
	assert.Empty(t, data.Failed)
	assert.Equal(t, 2, created)

	// The guest cart is drained after a full sync.
	rec = env.do(http.MethodGet, "/cart", "", nil)
	var cartData cartResponse
	decodeResponse(t, rec, &cartData)
	assert.Equal(t, 0, cartData.Count)
}

func TestSyncCart_ReportsFailedItems(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/cart" {
			var req struct {
				TourID string `json:"tourID"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.TourID == "tour-2" {
				writeBackendJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "boom"})
				return
			}
			writeBackendJSON(w, http.StatusCreated, envelope{Success: true, Data: map[string]interface{}{
				"bookingID": "bk-1",
				"tourID":    req.TourID,
			}})
			return
		}
		http.NotFound(w, r)
	}))

	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-1", "date": "2026-09-10", "adults": 2,
	})
	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-2", "date": "2026-09-11", "adults": 1,
	})

	rec := env.do(http.MethodPost, "/cart/sync", "token-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data syncResponse
	decodeResponse(t, rec, &data)
	assert.Equal(t, 1, data.Pushed)
	require.Len(t, data.Failed, 1)
	assert.Equal(t, "tour-2", data.Failed[0].TourID)
}

func TestViewCart_MemberDegradesToLocalOnBackendError(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "down"})
	}))

	// Seed a guest cart, then read it back authenticated with the backend down.
	env.do(http.MethodPost, "/cart/add", "", map[string]interface{}{
		"tour_id": "tour-1", "date": "2026-09-10", "adults": 2,
	})

	rec := env.do(http.MethodGet, "/cart", "token-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data cartResponse
	decodeResponse(t, rec, &data)
	assert.Equal(t, 1, data.Count)
}
