package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"travel/internal/domain"
)

// DefaultConfirmationTTL applies when the cache is built with a zero TTL.
const DefaultConfirmationTTL = 10 * time.Minute

const confirmationCachePrefix = "cache:confirmation:payment:"

// ConfirmationCache caches confirmed booking projections keyed by gateway payment id.
// Only fully confirmed bookings are stored; that state is terminal, so entries never go stale
// in a way that would reveal an unconfirmed booking.
type ConfirmationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConfirmationCache creates a new ConfirmationCache.
func NewConfirmationCache(client *redis.Client, ttl time.Duration) *ConfirmationCache {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &ConfirmationCache{client: client, ttl: ttl}
}

// Get retrieves a cached confirmation. It returns nil, nil on a cache miss.
func (s *ConfirmationCache) Get(ctx context.Context, paymentID string) (*domain.BookingConfirmation, error) {
	data, err := s.client.Get(ctx, confirmationCachePrefix+paymentID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var c domain.BookingConfirmation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Set stores a confirmation under its gateway payment id.
func (s *ConfirmationCache) Set(ctx context.Context, c *domain.BookingConfirmation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, confirmationCachePrefix+c.PaymentID, data, s.ttl).Err()
}

// Invalidate removes a cached confirmation.
func (s *ConfirmationCache) Invalidate(ctx context.Context, paymentID string) error {
	return s.client.Del(ctx, confirmationCachePrefix+paymentID).Err()
}
