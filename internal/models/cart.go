package models

import (
	"errors"
	"strings"
)

// CartLineItem represents one prospective tour booking in the shopping cart.
// Display fields are denormalized copies captured at add-time so a guest cart
// renders without a live tour lookup. Prices are in VND.
type CartLineItem struct {
	TourID           string  `json:"tour_id"`
	BookingID        string  `json:"booking_id,omitempty"` // set once persisted on the backend
	Title            string  `json:"title"`
	ImageURL         string  `json:"image_url"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	Date             string  `json:"date"` // YYYY-MM-DD
	Time             string  `json:"time,omitempty"`
	Adults           int     `json:"adults"`
	Children         int     `json:"children"`
	Language         string  `json:"language,omitempty"`
	FreeCancellation bool    `json:"free_cancellation"`
	OriginalPrice    int64   `json:"original_price"`
	DiscountedPrice  int64   `json:"discounted_price"`
	SpecialRequests  string  `json:"special_requests,omitempty"`
}

// IsLocal reports whether the item only exists in the guest cart.
func (i *CartLineItem) IsLocal() bool {
	return i.BookingID == ""
}

// Matches reports whether id identifies this item, by booking id for persisted
// items or by tour id for guest-local ones.
func (i *CartLineItem) Matches(id string) bool {
	if i.BookingID != "" && i.BookingID == id {
		return true
	}
	return i.TourID == id
}

// Key returns the guest-cart identity of the item. No two local items may
// share a key; adding with an existing key overwrites in place.
func (i *CartLineItem) Key() string {
	return i.TourID + "|" + i.Date
}

// Validate checks the fields a cart line item must always carry.
func (i *CartLineItem) Validate() error {
	if strings.TrimSpace(i.TourID) == "" {
		return errors.New("tour id is required")
	}
	if strings.TrimSpace(i.Date) == "" {
		return errors.New("booking date is required")
	}
	if i.Adults < 1 {
		return errors.New("at least one adult is required")
	}
	if i.Children < 0 {
		return errors.New("child count cannot be negative")
	}
	if i.OriginalPrice < 0 || i.DiscountedPrice < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}
