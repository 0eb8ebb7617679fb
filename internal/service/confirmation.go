package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travel/internal/domain"
	"travel/internal/repository"
)

// SignatureVerifier checks gateway callback authenticity.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// BookingNotifier tells the customer about a confirmed booking.
type BookingNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
}

// errLostCaptureRace aborts the transaction when another request captured first.
var errLostCaptureRace = errors.New("payment captured concurrently")

// BookingConfirmationService turns a verified gateway callback into a captured
// payment and a confirmed booking.
type BookingConfirmationService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	tx          repository.Transactor
	verifier    SignatureVerifier
	notifier    BookingNotifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBookingConfirmationService creates a new BookingConfirmationService.
func NewBookingConfirmationService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	tx repository.Transactor,
	verifier SignatureVerifier,
	notifier BookingNotifier,
	logger zerolog.Logger,
) *BookingConfirmationService {
	return &BookingConfirmationService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		tx:          tx,
		verifier:    verifier,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// VerifyPaymentRequest contains the gateway callback fields.
type VerifyPaymentRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Confirmation is the result of a successful verification.
type Confirmation struct {
	BookingID        string
	BookingReference string
	PaymentID        string
	// AlreadyProcessed is set when the payment had been captured by an earlier request.
	AlreadyProcessed bool
}

// VerifyAndConfirm validates the callback, captures the payment and confirms its booking.
// Calling it again for a captured payment succeeds without repeating the transition.
func (s *BookingConfirmationService) VerifyAndConfirm(ctx context.Context, req VerifyPaymentRequest) (*Confirmation, error) {
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	req.Signature = strings.TrimSpace(req.Signature)

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, ErrMissingFields
	}

	log := s.logger.With().Str("order_id", req.OrderID).Str("payment_id", req.PaymentID).Logger()

	if !s.verifier.Verify(req.OrderID, req.PaymentID, req.Signature) {
		log.Warn().Msg("payment signature mismatch")
		return nil, ErrInvalidSignature
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		log.Error().Err(err).Msg("payment lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if payment.IsCaptured() {
		log.Info().Msg("payment already captured")
		return s.completeCaptured(ctx, payment)
	}

	var booking *domain.Booking
	now := s.now().UTC()

	err = s.tx.InTx(ctx, func(repos repository.TxRepositories) error {
		captured, err := repos.Payments.MarkCaptured(ctx, req.OrderID, req.PaymentID, req.Signature, now)
		if err != nil {
			return fmt.Errorf("capture payment: %w", err)
		}
		if !captured {
			return errLostCaptureRace
		}

		if _, err := repos.Bookings.Confirm(ctx, payment.BookingID, payment.ID, now); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}

		booking, err = repos.Bookings.GetByID(ctx, payment.BookingID)
		if err != nil {
			return fmt.Errorf("reload booking: %w", err)
		}
		return nil
	})
	if errors.Is(err, errLostCaptureRace) {
		log.Info().Msg("payment captured by a concurrent request")
		payment, err = s.paymentRepo.GetByOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		return s.completeCaptured(ctx, payment)
	}
	if err != nil {
		log.Error().Err(err).Str("booking_id", payment.BookingID).Msg("payment confirmation write failed")
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	payment.GatewayPaymentID = req.PaymentID
	payment.Status = domain.PaymentStatusCaptured
	payment.CapturedAt = now

	if !booking.IsConfirmed() {
		// The capture is kept: the gateway holds the funds and reconciliation reports the pair.
		log.Error().
			Str("booking_id", booking.ID).
			Str("booking_status", string(booking.Status)).
			Msg("payment captured for a booking that is not pending")
		return nil, ErrBookingNotPayable
	}

	log.Info().Str("booking_reference", booking.Reference).Msg("booking confirmed")
	s.notify(ctx, booking, payment)

	return &Confirmation{
		BookingID:        booking.ID,
		BookingReference: booking.Reference,
		PaymentID:        req.PaymentID,
	}, nil
}

// completeCaptured answers a repeated verification for a captured payment.
// A booking left pending by an earlier failed write is confirmed here; the capture is never repeated.
func (s *BookingConfirmationService) completeCaptured(ctx context.Context, payment *domain.Payment) (*Confirmation, error) {
	log := s.logger.With().Str("order_id", payment.GatewayOrderID).Str("booking_id", payment.BookingID).Logger()

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if booking.Status == domain.BookingStatusPending {
		confirmed, err := s.bookingRepo.Confirm(ctx, booking.ID, payment.ID, s.now().UTC())
		if err != nil {
			log.Error().Err(err).Msg("confirming booking of captured payment failed")
			return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
		}
		if confirmed {
			booking.Status = domain.BookingStatusConfirmed
			log.Warn().Str("booking_reference", booking.Reference).Msg("confirmed booking left pending after capture")
			s.notify(ctx, booking, payment)
		} else if booking, err = s.bookingRepo.GetByID(ctx, booking.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	if !booking.IsConfirmed() {
		log.Warn().Str("booking_status", string(booking.Status)).Msg("replayed payment for a booking that is not pending")
		return nil, ErrBookingNotPayable
	}

	return &Confirmation{
		BookingID:        booking.ID,
		BookingReference: booking.Reference,
		PaymentID:        payment.GatewayPaymentID,
		AlreadyProcessed: true,
	}, nil
}

// notify sends the confirmation notice. Delivery failures never fail the request.
func (s *BookingConfirmationService) notify(ctx context.Context, booking *domain.Booking, payment *domain.Payment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBookingConfirmed(ctx, booking, payment); err != nil {
		s.logger.Warn().Err(err).
			Str("booking_reference", booking.Reference).
			Msg("booking confirmation notification failed")
	}
}
