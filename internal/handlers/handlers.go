// Package handlers exposes the storefront's cart, checkout and payment flows
// over JSON HTTP endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/models"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// timeFormat renders deadlines for the storefront frontend.
const timeFormat = time.RFC3339

// apiResponse is the wrapper every endpoint answers with, mirroring the
// envelope the booking backend itself uses.
type apiResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

// respondError maps domain errors onto HTTP statuses and a user-facing
// message. Backend validation errors carry their field map through.
func respondError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."
	var fields map[string][]string

	var be *backend.Error
	switch {
	case errors.Is(err, models.ErrUnauthorized) || backend.IsUnauthorized(err):
		status = http.StatusUnauthorized
		message = "Please log in to continue."
	case errors.Is(err, models.ErrMissingSession):
		status = http.StatusNotFound
		message = "No pending payment session. Start again from your cart."
	case errors.Is(err, models.ErrSessionExpired):
		status = http.StatusGone
		message = "The payment session expired. Start again from your cart."
	case errors.Is(err, models.ErrItemNotFound):
		status = http.StatusNotFound
		message = "That item is no longer in your cart."
	case errors.Is(err, models.ErrEmptyCart):
		status = http.StatusBadRequest
		message = "Your cart is empty."
	case errors.Is(err, models.ErrNoBookableItems):
		status = http.StatusBadRequest
		message = "None of your cart items could be booked. Please try again."
	case errors.Is(err, models.ErrVoucherRejected):
		status = http.StatusBadRequest
		message = "This voucher code is not valid."
	case errors.As(err, &be):
		message = be.UserMessage()
		fields = be.Fields
		switch be.Kind {
		case backend.KindValidation:
			status = http.StatusUnprocessableEntity
		case backend.KindRejected:
			status = http.StatusBadRequest
		case backend.KindTransport:
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
	} else {
		logger.WithError(err).Info("request rejected")
	}
	writeJSON(w, status, apiResponse{Success: false, Message: message, Errors: fields})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// saveSession persists cookie session mutations back to the response. It
// must run before any body is written.
func saveSession(w http.ResponseWriter, r *http.Request, session *sessions.Session, logger *logrus.Logger) bool {
	if err := session.Save(r, w); err != nil {
		logger.WithError(err).Error("failed to save session")
		writeJSON(w, http.StatusInternalServerError, apiResponse{
			Success: false,
			Message: "Something went wrong. Please try again.",
		})
		return false
	}
	return true
}
