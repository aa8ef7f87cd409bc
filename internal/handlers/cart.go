package handlers

import (
	"net/http"

	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// CartHandler serves the cart endpoints for guests and members alike. The
// guest cart lives in the visitor's cookie session; the member cart lives on
// the booking backend behind the cart service.
type CartHandler struct {
	service     *cart.Service
	store       sessions.Store
	sessionName string
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service *cart.Service, store sessions.Store, sessionName string, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		service:     service,
		store:       store,
		sessionName: sessionName,
		logger:      logger,
	}
}

func (h *CartHandler) session(r *http.Request) (*sessions.Session, *cart.SessionStore) {
	// Get never fails fatally; a bad cookie yields a fresh session.
	session, _ := h.store.Get(r, h.sessionName)
	return session, cart.NewSessionStore(session)
}

type cartResponse struct {
	Items []models.CartLineItem `json:"items"`
	Count int                   `json:"count"`
}

func newCartResponse(items []models.CartLineItem) cartResponse {
	if items == nil {
		items = []models.CartLineItem{}
	}
	return cartResponse{Items: items, Count: len(items)}
}

// ViewCart returns the current cart for the visitor.
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	_, local := h.session(r)

	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCartResponse(items))
}

type addToCartRequest struct {
	TourID          string `json:"tour_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`

	// Display fields are captured so a guest cart renders without a live
	// tour lookup. Ignored for authenticated visitors.
	Title            string  `json:"title"`
	ImageURL         string  `json:"image_url"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	Language         string  `json:"language"`
	FreeCancellation bool    `json:"free_cancellation"`
	OriginalPrice    int64   `json:"original_price"`
	DiscountedPrice  int64   `json:"discounted_price"`
}

// AddToCart adds a tour departure to the cart.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if req.TourID == "" || req.Date == "" {
		respondBadRequest(w, "tour_id and date are required")
		return
	}
	if req.Adults <= 0 {
		respondBadRequest(w, "at least one adult is required")
		return
	}

	token := middleware.GetTokenFromContext(r.Context())
	session, local := h.session(r)

	add := cart.AddRequest{
		TourID:          req.TourID,
		Date:            req.Date,
		Time:            req.Time,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
	}
	if req.Title != "" {
		add.Display = &cart.TourDisplay{
			Title:            req.Title,
			ImageURL:         req.ImageURL,
			Rating:           req.Rating,
			ReviewCount:      req.ReviewCount,
			Language:         req.Language,
			FreeCancellation: req.FreeCancellation,
			OriginalPrice:    req.OriginalPrice,
			DiscountedPrice:  req.DiscountedPrice,
		}
	}

	if err := h.service.AddToCart(r.Context(), token, local, add); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}

	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCartResponse(items))
}

type removeFromCartRequest struct {
	ID string `json:"id"`
}

// RemoveFromCart removes one line item, addressed by booking id for members
// or tour id for guests.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req removeFromCartRequest
	if err := decodeJSON(r, &req); err != nil || req.ID == "" {
		respondBadRequest(w, "id is required")
		return
	}

	token := middleware.GetTokenFromContext(r.Context())
	session, local := h.session(r)

	if err := h.service.RemoveFromCart(r.Context(), token, local, req.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}

	items, err := h.service.GetCart(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, newCartResponse(items))
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, local := h.session(r)

	if err := h.service.ClearCart(r.Context(), token, local); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}
	respondData(w, http.StatusOK, newCartResponse(nil))
}

type syncResponse struct {
	Pushed int                   `json:"pushed"`
	Failed []models.CartLineItem `json:"failed"`
}

// SyncCart pushes the guest cart to the backend after login. Items that
// could not be pushed stay in the guest cart and are reported back.
func (h *CartHandler) SyncCart(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	session, local := h.session(r)

	// The frontend calls sync right after login, so this is also where the
	// auth transition is announced.
	h.service.Events().Publish(cart.Event{Topic: cart.TopicAuthChanged, Token: token})

	report, err := h.service.SyncToServer(r.Context(), token, local)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !saveSession(w, r, session, h.logger) {
		return
	}

	failed := report.Failed
	if failed == nil {
		failed = []models.CartLineItem{}
	}
	respondData(w, http.StatusOK, syncResponse{Pushed: report.Pushed, Failed: failed})
}
