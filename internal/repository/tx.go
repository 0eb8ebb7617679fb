package repository

import "context"

// TxRepositories are repositories bound to a single store transaction.
type TxRepositories struct {
	Payments PaymentRepository
	Bookings BookingRepository
}

// Transactor runs a unit of work atomically.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
