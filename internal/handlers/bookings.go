package handlers

import (
	"context"
	"net/http"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/middleware"

	"github.com/sirupsen/logrus"
)

// BookingLister is the slice of the booking backend the bookings page needs.
type BookingLister interface {
	ListBookings(ctx context.Context, token string) ([]backend.Booking, error)
}

// BookingsHandler serves the customer's confirmed bookings.
type BookingsHandler struct {
	backend BookingLister
	logger  *logrus.Logger
}

// NewBookingsHandler creates a new bookings handler.
func NewBookingsHandler(b BookingLister, logger *logrus.Logger) *BookingsHandler {
	return &BookingsHandler{backend: b, logger: logger}
}

// ListBookings returns the authenticated customer's bookings.
func (h *BookingsHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())

	bookings, err := h.backend.ListBookings(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if bookings == nil {
		bookings = []backend.Booking{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Health reports process liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
