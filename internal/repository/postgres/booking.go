package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, booking_reference, customer_name, customer_email, customer_phone,
		       total_amount, currency, payment_type, quick_payment_notes, status,
		       destination_id, payment_id, confirmed_at, created_at
		FROM bookings WHERE id = $1
	`

	var booking domain.Booking
	var notes sql.NullString
	var paymentID sql.NullString
	var confirmedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.PaymentType,
		&notes,
		&booking.Status,
		&booking.DestinationID,
		&paymentID,
		&confirmedAt,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	booking.QuickPaymentNotes = notes.String
	booking.PaymentID = paymentID.String
	if confirmedAt.Valid {
		booking.ConfirmedAt = confirmedAt.Time
	}

	return &booking, nil
}

// Confirm marks a pending booking confirmed and links its settling payment.
// Confirmed and cancelled bookings are left untouched.
func (r *BookingRepository) Confirm(ctx context.Context, id, paymentID string, confirmedAt time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, payment_id = $2, confirmed_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.BookingStatusConfirmed,
		paymentID,
		confirmedAt,
		id,
		domain.BookingStatusPending,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
