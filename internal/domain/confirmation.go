package domain

import "time"

// BookingConfirmation is the display-safe projection of a confirmed booking.
// It carries no internal payment state beyond the gateway payment id.
type BookingConfirmation struct {
	BookingID          string    `json:"id"`
	BookingReference   string    `json:"booking_reference"`
	CustomerName       string    `json:"customer_name"`
	CustomerEmail      string    `json:"customer_email"`
	CustomerPhone      string    `json:"customer_phone"`
	TotalAmount        float64   `json:"total_amount"`
	Currency           string    `json:"currency"`
	PaymentType        string    `json:"payment_type"`
	QuickPaymentNotes  string    `json:"quick_payment_notes"`
	DestinationName    string    `json:"destination_name"`
	DestinationCountry string    `json:"destination_country"`
	PaymentID          string    `json:"payment_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewBookingConfirmation flattens a booking, its destination and its settling payment.
// destination may be nil when the row is missing.
func NewBookingConfirmation(b *Booking, d *Destination, p *Payment) *BookingConfirmation {
	c := &BookingConfirmation{
		BookingID:         b.ID,
		BookingReference:  b.Reference,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		TotalAmount:       b.TotalAmount,
		Currency:          b.Currency,
		PaymentType:       b.PaymentType,
		QuickPaymentNotes: b.QuickPaymentNotes,
		PaymentID:         p.GatewayPaymentID,
		CreatedAt:         b.CreatedAt,
	}
	if d != nil {
		c.DestinationName = d.Name
		c.DestinationCountry = d.Country
	}
	return c
}
