package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ConfirmationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConfirmationCache(client, ttl), mr
}

func TestConfirmationCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	in := &domain.BookingConfirmation{
		BookingID:          "booking-1",
		BookingReference:   "TRV-0001",
		DestinationName:    "Munnar",
		DestinationCountry: "India",
		PaymentID:          "pay_XYZ",
		TotalAmount:        45999,
		Currency:           "INR",
		CreatedAt:          time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, in))

	out, err := cache.Get(ctx, "pay_XYZ")
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, time.Minute, mr.TTL(confirmationCachePrefix+"pay_XYZ"))
}

func TestConfirmationCache_MissAndExpiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	out, err := cache.Get(ctx, "pay_unknown")
	require.NoError(t, err)
	assert.Nil(t, out)

	require.NoError(t, cache.Set(ctx, &domain.BookingConfirmation{PaymentID: "pay_XYZ"}))
	mr.FastForward(2 * time.Minute)

	out, err = cache.Get(ctx, "pay_XYZ")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestConfirmationCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t, 0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.BookingConfirmation{PaymentID: "pay_XYZ"}))
	require.NoError(t, cache.Invalidate(ctx, "pay_XYZ"))

	out, err := cache.Get(ctx, "pay_XYZ")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestConfirmationCache_DefaultTTL(t *testing.T) {
	cache, _ := newTestCache(t, 0)
	assert.Equal(t, DefaultConfirmationTTL, cache.ttl)
}
