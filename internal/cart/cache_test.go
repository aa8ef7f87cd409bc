package cart

import (
	"testing"
	"time"

	"tour-booking-platform/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(10*time.Second, clock.Now)

	items := []models.CartLineItem{{TourID: "tour-1", Date: "2025-05-01", Adults: 1}}
	cache.Set("token-1", items)

	got, ok := cache.Get("token-1")
	assert.True(t, ok)
	assert.Equal(t, items, got)

	clock.Advance(9 * time.Second)
	_, ok = cache.Get("token-1")
	assert.True(t, ok, "entry inside the window must still be served")

	clock.Advance(2 * time.Second)
	_, ok = cache.Get("token-1")
	assert.False(t, ok, "entry past the window must be dropped")
}

func TestMemoryCache_Invalidate(t *testing.T) {
	cache := NewMemoryCache(time.Minute, nil)
	cache.Set("token-1", []models.CartLineItem{{TourID: "tour-1"}})
	cache.Set("token-2", []models.CartLineItem{{TourID: "tour-2"}})

	cache.Invalidate("token-1")

	_, ok := cache.Get("token-1")
	assert.False(t, ok)
	_, ok = cache.Get("token-2")
	assert.True(t, ok, "invalidation is per token")
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	cache := NewMemoryCache(time.Minute, nil)
	cache.Set("token-1", []models.CartLineItem{{TourID: "tour-1", Adults: 2}})

	got, ok := cache.Get("token-1")
	assert.True(t, ok)
	got[0].Adults = 99

	again, ok := cache.Get("token-1")
	assert.True(t, ok)
	assert.Equal(t, 2, again[0].Adults, "mutating a returned slice must not touch the cached entry")
}

func TestMemoryCache_MissForUnknownToken(t *testing.T) {
	cache := NewMemoryCache(time.Minute, nil)
	_, ok := cache.Get("nobody")
	assert.False(t, ok)
}
