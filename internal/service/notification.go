package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"travel/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID        string
	Type      NotificationType
	Recipient string // customer email
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService delivers customer notifications.
// Delivery is log-based; an email provider would plug in behind send.
type NotificationService struct {
	logger zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger zerolog.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyBookingConfirmed tells the customer that their payment settled the booking.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	notification := Notification{
		ID:        uuid.New().String(),
		Type:      NotificationBookingConfirmed,
		Recipient: booking.CustomerEmail,
		Title:     "Booking Confirmed",
		Message: fmt.Sprintf("Hi %s, your booking %s is confirmed. We received %s %.2f.",
			booking.CustomerName, booking.Reference, booking.Currency, booking.TotalAmount),
		Data: map[string]interface{}{
			"booking_reference": booking.Reference,
			"payment_id":        payment.GatewayPaymentID,
			"amount":            booking.TotalAmount,
			"currency":          booking.Currency,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	s.logger.Info().
		Str("notification_id", notification.ID).
		Str("type", string(notification.Type)).
		Str("recipient", notification.Recipient).
		Str("title", notification.Title).
		Msg(notification.Message)

	return nil
}
