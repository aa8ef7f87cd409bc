package backend

import (
	"context"
	"net/http"
	"net/url"

	"tour-booking-platform/internal/models"
)

// bookingRecord is a draft booking as the backend serializes it.
type bookingRecord struct {
	BookingID        string  `json:"bookingID"`
	TourID           string  `json:"tourID"`
	Title            string  `json:"title"`
	ImageURL         string  `json:"imageURL"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"reviewCount"`
	BookingDate      string  `json:"bookingDate"`
	BookingTime      string  `json:"bookingTime,omitempty"`
	NumAdults        int     `json:"numAdults"`
	NumChildren      int     `json:"numChildren"`
	Language         string  `json:"language,omitempty"`
	FreeCancellation bool    `json:"freeCancellation"`
	OriginalPrice    int64   `json:"originalPrice"`
	DiscountedPrice  int64   `json:"discountedPrice"`
	SpecialRequests  string  `json:"specialRequests,omitempty"`
	Status           string  `json:"status,omitempty"`
}

func (r *bookingRecord) toLineItem() models.CartLineItem {
	return models.CartLineItem{
		TourID:           r.TourID,
		BookingID:        r.BookingID,
		Title:            r.Title,
		ImageURL:         r.ImageURL,
		Rating:           r.Rating,
		ReviewCount:      r.ReviewCount,
		Date:             r.BookingDate,
		Time:             r.BookingTime,
		Adults:           r.NumAdults,
		Children:         r.NumChildren,
		Language:         r.Language,
		FreeCancellation: r.FreeCancellation,
		OriginalPrice:    r.OriginalPrice,
		DiscountedPrice:  r.DiscountedPrice,
		SpecialRequests:  r.SpecialRequests,
	}
}

// CreateBookingRequest represents the data needed to create a draft booking
type CreateBookingRequest struct {
	TourID          string `json:"tourID"`
	BookingDate     string `json:"bookingDate"`
	NumAdults       int    `json:"numAdults"`
	NumChildren     int    `json:"numChildren"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// GetCart fetches the caller's draft bookings and transforms them into cart
// line items.
func (c *Client) GetCart(ctx context.Context, token string) ([]models.CartLineItem, error) {
	var data struct {
		Items []bookingRecord `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &data); err != nil {
		return nil, err
	}

	items := make([]models.CartLineItem, 0, len(data.Items))
	for i := range data.Items {
		items = append(items, data.Items[i].toLineItem())
	}
	return items, nil
}

// CreateBooking creates one draft booking on the backend.
func (c *Client) CreateBooking(ctx context.Context, token string, req CreateBookingRequest) (*models.CartLineItem, error) {
	var record bookingRecord
	if err := c.do(ctx, http.MethodPost, "/cart", token, req, &record); err != nil {
		return nil, err
	}
	item := record.toLineItem()
	return &item, nil
}

// DeleteBooking removes one draft booking.
func (c *Client) DeleteBooking(ctx context.Context, token, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(bookingID), token, nil, nil)
}

// ClearBookings removes every draft booking for the caller.
func (c *Client) ClearBookings(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/cart", token, nil, nil)
}

// Booking is a confirmed booking as listed after payment.
type Booking struct {
	models.CartLineItem
	Status string `json:"status"`
}

// ListBookings fetches the caller's confirmed bookings.
func (c *Client) ListBookings(ctx context.Context, token string) ([]Booking, error) {
	var data struct {
		Bookings []bookingRecord `json:"bookings"`
	}
	if err := c.do(ctx, http.MethodGet, "/bookings", token, nil, &data); err != nil {
		return nil, err
	}

	bookings := make([]Booking, 0, len(data.Bookings))
	for i := range data.Bookings {
		bookings = append(bookings, Booking{
			CartLineItem: data.Bookings[i].toLineItem(),
			Status:       data.Bookings[i].Status,
		})
	}
	return bookings, nil
}
