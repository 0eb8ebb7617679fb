package domain

import "time"

// PaymentStatus represents the lifecycle state of a gateway payment.
type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment represents a Razorpay checkout session and its settlement state.
type Payment struct {
	ID               string
	BookingID        string
	GatewayOrderID   string // razorpay_order_id, unique
	GatewayPaymentID string // razorpay_payment_id, set once captured
	Signature        string
	Status           PaymentStatus
	CapturedAt       time.Time
	CreatedAt        time.Time
}

// IsCaptured reports whether the gateway confirmed the funds.
func (p *Payment) IsCaptured() bool {
	return p.Status == PaymentStatusCaptured
}
