package service

import "errors"

var (
	// ErrMissingFields is returned when order id, payment id or signature is empty.
	ErrMissingFields = errors.New("missing required payment verification fields")

	// ErrMissingPaymentID is returned when a lookup is made without a payment id.
	ErrMissingPaymentID = errors.New("payment id is required")

	// ErrInvalidSignature is returned when the gateway signature does not match.
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrPaymentNotFound is returned when no payment record matches.
	ErrPaymentNotFound = errors.New("payment record not found")

	// ErrPaymentNotConfirmed is returned when a lookup hits a payment that is not captured.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")

	// ErrBookingNotFound is returned when the payment's booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotConfirmed is returned when a lookup hits a booking that is not confirmed.
	ErrBookingNotConfirmed = errors.New("booking not confirmed")

	// ErrBookingNotPayable is returned when a payment settles a booking that is no longer pending.
	ErrBookingNotPayable = errors.New("booking can no longer be confirmed")

	// ErrUpdateFailed is returned when the capture or confirmation write fails.
	ErrUpdateFailed = errors.New("failed to update payment and booking")

	// ErrStore is returned when a store read fails.
	ErrStore = errors.New("store unavailable")
)
