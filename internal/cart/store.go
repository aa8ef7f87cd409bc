package cart

import (
	"encoding/json"

	"tour-booking-platform/internal/models"

	"github.com/gorilla/sessions"
)

// LocalStore holds the guest cart for one visitor. In the storefront this is
// backed by the visitor's cookie session; tests use the in-memory store.
type LocalStore interface {
	Items() ([]models.CartLineItem, error)
	Replace(items []models.CartLineItem) error
	Clear() error
}

// MemoryStore is an in-process LocalStore.
type MemoryStore struct {
	items []models.CartLineItem
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Items() ([]models.CartLineItem, error) {
	out := make([]models.CartLineItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Replace(items []models.CartLineItem) error {
	s.items = make([]models.CartLineItem, len(items))
	copy(s.items, items)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.items = nil
	return nil
}

const sessionCartKey = "guest_cart"

// SessionStore keeps the guest cart as JSON inside a cookie session. The
// handler owns saving the session back to the response after mutations.
type SessionStore struct {
	session *sessions.Session
}

// NewSessionStore wraps an existing session.
func NewSessionStore(session *sessions.Session) *SessionStore {
	return &SessionStore{session: session}
}

func (s *SessionStore) Items() ([]models.CartLineItem, error) {
	raw, ok := s.session.Values[sessionCartKey]
	if !ok {
		return nil, nil
	}

	cartJSON, ok := raw.(string)
	if !ok {
		return nil, nil
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(cartJSON), &items); err != nil {
		// A corrupted cart is treated as empty rather than failing the UI.
		return nil, nil
	}
	return items, nil
}

func (s *SessionStore) Replace(items []models.CartLineItem) error {
	cartJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.session.Values[sessionCartKey] = string(cartJSON)
	return nil
}

func (s *SessionStore) Clear() error {
	delete(s.session.Values, sessionCartKey)
	return nil
}
