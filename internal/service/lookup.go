package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"travel/internal/domain"
	"travel/internal/repository"
)

// ConfirmationCache stores confirmed booking projections by gateway payment id.
type ConfirmationCache interface {
	Get(ctx context.Context, paymentID string) (*domain.BookingConfirmation, error)
	Set(ctx context.Context, c *domain.BookingConfirmation) error
	Invalidate(ctx context.Context, paymentID string) error
}

// BookingLookupService resolves a confirmed booking from a gateway payment id alone.
// It backs the confirmation page when the order id is not available.
type BookingLookupService struct {
	paymentRepo     repository.PaymentRepository
	bookingRepo     repository.BookingRepository
	destinationRepo repository.DestinationRepository
	cache           ConfirmationCache
	logger          zerolog.Logger
}

// NewBookingLookupService creates a new BookingLookupService. cache may be nil.
func NewBookingLookupService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	destinationRepo repository.DestinationRepository,
	cache ConfirmationCache,
	logger zerolog.Logger,
) *BookingLookupService {
	return &BookingLookupService{
		paymentRepo:     paymentRepo,
		bookingRepo:     bookingRepo,
		destinationRepo: destinationRepo,
		cache:           cache,
		logger:          logger,
	}
}

// FindByPaymentID returns the display projection of the booking settled by paymentID.
// Payment and booking are written separately, so each status is checked on its own.
func (s *BookingLookupService) FindByPaymentID(ctx context.Context, paymentID string) (*domain.BookingConfirmation, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrMissingPaymentID
	}

	log := s.logger.With().Str("payment_id", paymentID).Logger()

	if cached := s.cachedConfirmation(ctx, log, paymentID); cached != nil {
		return cached, nil
	}

	payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		log.Error().Err(err).Msg("payment lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if !payment.IsCaptured() {
		log.Info().Str("status", string(payment.Status)).Msg("lookup of uncaptured payment rejected")
		return nil, ErrPaymentNotConfirmed
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		log.Error().Err(err).Str("booking_id", payment.BookingID).Msg("booking lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if !booking.IsConfirmed() {
		log.Warn().Str("booking_reference", booking.Reference).Msg("captured payment with unconfirmed booking")
		return nil, ErrBookingNotConfirmed
	}

	destination, err := s.destinationRepo.GetByID(ctx, booking.DestinationID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Str("destination_id", booking.DestinationID).Msg("destination lookup failed")
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	confirmation := domain.NewBookingConfirmation(booking, destination, payment)

	if s.cache != nil {
		if err := s.cache.Set(ctx, confirmation); err != nil {
			log.Warn().Err(err).Msg("confirmation cache write failed")
		}
	}

	return confirmation, nil
}

// cachedConfirmation returns the cached projection only while its booking is still stored as confirmed.
// Stale entries are dropped so the full checks below decide the answer.
func (s *BookingLookupService) cachedConfirmation(ctx context.Context, log zerolog.Logger, paymentID string) *domain.BookingConfirmation {
	if s.cache == nil {
		return nil
	}

	cached, err := s.cache.Get(ctx, paymentID)
	if err != nil {
		log.Warn().Err(err).Msg("confirmation cache read failed")
		return nil
	}
	if cached == nil {
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, cached.BookingID)
	if err == nil && booking.IsConfirmed() {
		return cached
	}

	log.Info().Str("booking_id", cached.BookingID).Msg("dropping stale confirmation cache entry")
	if err := s.cache.Invalidate(ctx, paymentID); err != nil {
		log.Warn().Err(err).Msg("confirmation cache invalidate failed")
	}
	return nil
}
