package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
)

const paymentColumns = `id, booking_id, razorpay_order_id, razorpay_payment_id, razorpay_signature, status, captured_at, created_at`

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// GetByOrderID retrieves a payment by its gateway order id.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE razorpay_order_id = $1`

	return scanPayment(r.q.QueryRowContext(ctx, query, orderID))
}

// GetByGatewayPaymentID retrieves a payment by its gateway payment id.
func (r *PaymentRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE razorpay_payment_id = $1`

	return scanPayment(r.q.QueryRowContext(ctx, query, paymentID))
}

// MarkCaptured moves the payment to captured unless it already is.
// The status predicate makes concurrent duplicates race on the row lock:
// the loser re-evaluates the WHERE clause after the winner commits and matches nothing.
func (r *PaymentRepository) MarkCaptured(ctx context.Context, orderID, gatewayPaymentID, signature string, capturedAt time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET razorpay_payment_id = $1, razorpay_signature = $2, status = $3, captured_at = $4
		WHERE razorpay_order_id = $5 AND status <> $3
	`

	result, err := r.q.ExecContext(ctx, query,
		gatewayPaymentID,
		signature,
		domain.PaymentStatusCaptured,
		capturedAt,
		orderID,
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

// ListDiscrepancies returns captured payments whose booking is not confirmed.
func (r *PaymentRepository) ListDiscrepancies(ctx context.Context, limit int) ([]*domain.Discrepancy, error) {
	query := `
		SELECT p.id, p.razorpay_order_id, p.razorpay_payment_id, b.id, b.booking_reference, b.status, p.captured_at
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE p.status = $1 AND b.status <> $2
		ORDER BY p.captured_at ASC
		LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, domain.PaymentStatusCaptured, domain.BookingStatusConfirmed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Discrepancy
	for rows.Next() {
		var d domain.Discrepancy
		var gatewayPaymentID sql.NullString
		var capturedAt sql.NullTime

		if err := rows.Scan(
			&d.PaymentID,
			&d.GatewayOrderID,
			&gatewayPaymentID,
			&d.BookingID,
			&d.BookingReference,
			&d.BookingStatus,
			&capturedAt,
		); err != nil {
			return nil, err
		}

		d.GatewayPaymentID = gatewayPaymentID.String
		if capturedAt.Valid {
			d.CapturedAt = capturedAt.Time
		}
		out = append(out, &d)
	}

	return out, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var gatewayPaymentID sql.NullString
	var signature sql.NullString
	var capturedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.GatewayOrderID,
		&gatewayPaymentID,
		&signature,
		&payment.Status,
		&capturedAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	payment.GatewayPaymentID = gatewayPaymentID.String
	payment.Signature = signature.String
	if capturedAt.Valid {
		payment.CapturedAt = capturedAt.Time
	}

	return &payment, nil
}

// Ensure PaymentRepository implements repository.PaymentRepository.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
