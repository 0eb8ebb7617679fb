package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer's reservation for a destination package.
type Booking struct {
	ID                string
	Reference         string // human-facing, unique
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	TotalAmount       float64
	Currency          string
	PaymentType       string
	QuickPaymentNotes string
	Status            BookingStatus
	DestinationID     string
	PaymentID         string // settling payment, empty until confirmed
	ConfirmedAt       time.Time
	CreatedAt         time.Time
}

// IsConfirmed reports whether the stored status is exactly confirmed.
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}
