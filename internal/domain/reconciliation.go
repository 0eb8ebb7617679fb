package domain

import "time"

// Discrepancy is a captured payment whose booking never reached confirmed.
// It is produced when the booking write fails after the capture write.
type Discrepancy struct {
	PaymentID        string
	GatewayOrderID   string
	GatewayPaymentID string
	BookingID        string
	BookingReference string
	BookingStatus    BookingStatus
	CapturedAt       time.Time
}
