package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"travel/internal/domain"
	"travel/internal/repository"
)

const defaultReconciliationLimit = 500

// ReconciliationService reports captured payments whose booking was never confirmed.
// It only reads; fixing a discrepancy is left to an operator or to the next verification retry.
type ReconciliationService struct {
	paymentRepo repository.PaymentRepository
	logger      zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(paymentRepo repository.PaymentRepository, logger zerolog.Logger) *ReconciliationService {
	return &ReconciliationService{paymentRepo: paymentRepo, logger: logger}
}

// Report lists up to limit discrepancies, oldest capture first, and logs each one.
func (s *ReconciliationService) Report(ctx context.Context, limit int) ([]*domain.Discrepancy, error) {
	if limit <= 0 {
		limit = defaultReconciliationLimit
	}

	found, err := s.paymentRepo.ListDiscrepancies(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	for _, d := range found {
		s.logger.Warn().
			Str("order_id", d.GatewayOrderID).
			Str("payment_id", d.GatewayPaymentID).
			Str("booking_reference", d.BookingReference).
			Str("booking_status", string(d.BookingStatus)).
			Time("captured_at", d.CapturedAt).
			Msg("captured payment without confirmed booking")
	}

	return found, nil
}
