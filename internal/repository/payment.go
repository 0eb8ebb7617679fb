package repository

import (
	"context"
	"time"

	"travel/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// GetByOrderID retrieves a payment by its gateway order id.
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)

	// GetByGatewayPaymentID retrieves a payment by its gateway payment id.
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// MarkCaptured moves the payment to captured unless it already is.
	// It reports false when no row changed, either because the payment was
	// already captured or because it does not exist.
	MarkCaptured(ctx context.Context, orderID, gatewayPaymentID, signature string, capturedAt time.Time) (bool, error)

	// ListDiscrepancies returns captured payments whose booking is not confirmed.
	ListDiscrepancies(ctx context.Context, limit int) ([]*domain.Discrepancy, error)
}
