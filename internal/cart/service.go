package cart

import (
	"context"
	"fmt"

	"tour-booking-platform/internal/backend"
	"tour-booking-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// Backend is the slice of the booking backend the cart façade needs.
type Backend interface {
	GetCart(ctx context.Context, token string) ([]models.CartLineItem, error)
	CreateBooking(ctx context.Context, token string, req backend.CreateBookingRequest) (*models.CartLineItem, error)
	DeleteBooking(ctx context.Context, token, bookingID string) error
	ClearBookings(ctx context.Context, token string) error
}

// Service presents one cart API to the rest of the storefront regardless of
// auth state. A visitor with a bearer token reads and writes draft bookings
// on the backend; a guest reads and writes the local store. Reads degrade to
// the local store when the backend is unreachable or the token has expired,
// because losing cart visibility is worse than showing stale data.
type Service struct {
	backend Backend
	cache   Cache
	bus     *Bus
	logger  *logrus.Logger
}

// NewService creates the cart façade.
func NewService(b Backend, cache Cache, bus *Bus, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{backend: b, cache: cache, bus: bus, logger: logger}
}

// Events exposes the cart event bus so other components can observe cart and
// auth transitions.
func (s *Service) Events() *Bus {
	return s.bus
}

// TourDisplay carries the denormalized tour fields captured when a guest adds
// an item, so the guest cart renders without a live tour lookup.
type TourDisplay struct {
	Title            string
	ImageURL         string
	Rating           float64
	ReviewCount      int
	Language         string
	FreeCancellation bool
	OriginalPrice    int64
	DiscountedPrice  int64
}

// AddRequest represents one add-to-cart call.
type AddRequest struct {
	TourID          string
	Date            string
	Time            string
	Adults          int
	Children        int
	SpecialRequests string
	Display         *TourDisplay // guest mode only; defaulted when absent
}

// GetCart returns the current line items for the visitor. Authenticated reads
// go through the short-lived cache; guest reads hit the local store directly.
func (s *Service) GetCart(ctx context.Context, token string, local LocalStore) ([]models.CartLineItem, error) {
	if token == "" {
		return local.Items()
	}

	if items, ok := s.cache.Get(token); ok {
		return items, nil
	}

	items, err := s.backend.GetCart(ctx, token)
	if err != nil {
		s.logger.WithError(err).Warn("cart fetch failed, serving local store")
		return local.Items()
	}

	s.cache.Set(token, items)
	return items, nil
}

// AddToCart adds or updates one prospective booking. Members create a draft
// booking on the backend; guests upsert the local store keyed by
// (tour id, date). Both modes broadcast a cart-updated event.
func (s *Service) AddToCart(ctx context.Context, token string, local LocalStore, req AddRequest) error {
	if token != "" {
		_, err := s.backend.CreateBooking(ctx, token, backend.CreateBookingRequest{
			TourID:          req.TourID,
			BookingDate:     req.Date,
			NumAdults:       req.Adults,
			NumChildren:     req.Children,
			SpecialRequests: req.SpecialRequests,
		})
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		s.cache.Invalidate(token)
		s.bus.Publish(Event{Topic: TopicCartUpdated, Token: token})
		return nil
	}

	item := s.buildLocalItem(req)
	if err := item.Validate(); err != nil {
		return err
	}

	items, err := local.Items()
	if err != nil {
		return err
	}

	updated := false
	for i := range items {
		if items[i].Key() == item.Key() {
			items[i].Adults = item.Adults
			items[i].Children = item.Children
			items[i].SpecialRequests = item.SpecialRequests
			updated = true
			break
		}
	}
	if !updated {
		items = append(items, item)
	}

	if err := local.Replace(items); err != nil {
		return err
	}
	s.bus.Publish(Event{Topic: TopicCartUpdated})
	return nil
}

// RemoveFromCart removes the item identified by a booking id (members) or by
// a booking or tour id (guests).
func (s *Service) RemoveFromCart(ctx context.Context, token string, local LocalStore, id string) error {
	if token != "" {
		items, err := s.GetCart(ctx, token, local)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].BookingID != "" && items[i].BookingID == id {
				if err := s.backend.DeleteBooking(ctx, token, id); err != nil {
					return fmt.Errorf("failed to delete booking: %w", err)
				}
				s.cache.Invalidate(token)
				s.bus.Publish(Event{Topic: TopicCartUpdated, Token: token})
				return nil
			}
		}
		// Not a known booking id; fall through to the local store.
	}

	items, err := local.Items()
	if err != nil {
		return err
	}

	kept := items[:0]
	for i := range items {
		if !items[i].Matches(id) {
			kept = append(kept, items[i])
		}
	}
	if len(kept) == len(items) {
		return models.ErrItemNotFound
	}

	if err := local.Replace(kept); err != nil {
		return err
	}
	s.bus.Publish(Event{Topic: TopicCartUpdated, Token: token})
	return nil
}

// SyncReport describes the outcome of pushing a guest cart to the backend.
type SyncReport struct {
	Pushed int
	Failed []models.CartLineItem
}

// SyncToServer pushes every local item to the backend as a draft booking,
// one create call per item. An item whose call fails is retried once; if it
// still fails it stays in the local store and is reported, so a flaky push
// never silently drops part of the cart. The cache is invalidated and a
// cart-updated event published regardless of individual outcomes.
func (s *Service) SyncToServer(ctx context.Context, token string, local LocalStore) (*SyncReport, error) {
	report := &SyncReport{}
	if token == "" {
		return report, nil
	}

	items, err := local.Items()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return report, nil
	}

	for _, item := range items {
		req := backend.CreateBookingRequest{
			TourID:          item.TourID,
			BookingDate:     item.Date,
			NumAdults:       item.Adults,
			NumChildren:     item.Children,
			SpecialRequests: item.SpecialRequests,
		}

		if _, err := s.backend.CreateBooking(ctx, token, req); err != nil {
			s.logger.WithError(err).WithField("tour_id", item.TourID).Warn("cart sync item failed, retrying")
			if _, err := s.backend.CreateBooking(ctx, token, req); err != nil {
				s.logger.WithError(err).WithField("tour_id", item.TourID).Error("cart sync item failed after retry")
				report.Failed = append(report.Failed, item)
				continue
			}
		}
		report.Pushed++
	}

	if err := local.Replace(report.Failed); err != nil {
		return report, err
	}

	s.cache.Invalidate(token)
	s.bus.Publish(Event{Topic: TopicCartUpdated, Token: token})
	return report, nil
}

// ClearCart empties the visitor's cart in whichever store backs it.
func (s *Service) ClearCart(ctx context.Context, token string, local LocalStore) error {
	if token != "" {
		s.cache.Invalidate(token)
		if err := s.backend.ClearBookings(ctx, token); err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}
	}
	if err := local.Clear(); err != nil {
		return err
	}
	s.bus.Publish(Event{Topic: TopicCartUpdated, Token: token})
	return nil
}

func (s *Service) buildLocalItem(req AddRequest) models.CartLineItem {
	item := models.CartLineItem{
		TourID:          req.TourID,
		Date:            req.Date,
		Time:            req.Time,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
	}

	if d := req.Display; d != nil {
		item.Title = d.Title
		item.ImageURL = d.ImageURL
		item.Rating = d.Rating
		item.ReviewCount = d.ReviewCount
		item.Language = d.Language
		item.FreeCancellation = d.FreeCancellation
		item.OriginalPrice = d.OriginalPrice
		item.DiscountedPrice = d.DiscountedPrice
	}
	if item.Title == "" {
		item.Title = "Tour " + req.TourID
	}
	return item
}
