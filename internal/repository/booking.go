package repository

import (
	"context"
	"time"

	"travel/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// Confirm moves a pending booking to confirmed and links its settling payment.
	// It reports false when the booking is not pending or does not exist.
	Confirm(ctx context.Context, id, paymentID string, confirmedAt time.Time) (bool, error)
}
