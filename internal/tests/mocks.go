package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
)

var errInjected = errors.New("injected store failure")

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment // keyed by gateway order id

	// Counters for verification
	MarkCapturedCallCount int32
	CaptureWrites         int32

	// Error injection
	GetError          error
	MarkCapturedError error
	ListError         error

	// bookings is consulted by ListDiscrepancies when set.
	bookings *MockBookingRepository
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.GatewayOrderID] = payment
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.GatewayPaymentID == paymentID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) MarkCaptured(ctx context.Context, orderID, gatewayPaymentID, signature string, capturedAt time.Time) (bool, error) {
	atomic.AddInt32(&m.MarkCapturedCallCount, 1)
	if m.MarkCapturedError != nil {
		return false, m.MarkCapturedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[orderID]
	if !ok || payment.Status == domain.PaymentStatusCaptured {
		return false, nil
	}
	payment.GatewayPaymentID = gatewayPaymentID
	payment.Signature = signature
	payment.Status = domain.PaymentStatusCaptured
	payment.CapturedAt = capturedAt
	atomic.AddInt32(&m.CaptureWrites, 1)
	return true, nil
}

func (m *MockPaymentRepository) ListDiscrepancies(ctx context.Context, limit int) ([]*domain.Discrepancy, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Discrepancy
	for _, p := range m.payments {
		if p.Status != domain.PaymentStatusCaptured || m.bookings == nil {
			continue
		}
		b := m.bookings.GetBooking(p.BookingID)
		if b == nil || b.Status == domain.BookingStatusConfirmed {
			continue
		}
		result = append(result, &domain.Discrepancy{
			PaymentID:        p.ID,
			GatewayOrderID:   p.GatewayOrderID,
			GatewayPaymentID: p.GatewayPaymentID,
			BookingID:        b.ID,
			BookingReference: b.Reference,
			BookingStatus:    b.Status,
			CapturedAt:       p.CapturedAt,
		})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// GetPayment returns payment for test assertions.
func (m *MockPaymentRepository) GetPayment(orderID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[orderID]
}

func (m *MockPaymentRepository) snapshot() map[string]domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Payment, len(m.payments))
	for k, v := range m.payments {
		out[k] = *v
	}
	return out
}

func (m *MockPaymentRepository) restore(s map[string]domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range s {
		*m.payments[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	ConfirmCallCount int32
	ConfirmWrites    int32

	// Error injection
	GetError     error
	ConfirmError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) Confirm(ctx context.Context, id, paymentID string, confirmedAt time.Time) (bool, error) {
	atomic.AddInt32(&m.ConfirmCallCount, 1)
	if m.ConfirmError != nil {
		return false, m.ConfirmError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusPending {
		return false, nil
	}
	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentID = paymentID
	booking.ConfirmedAt = confirmedAt
	atomic.AddInt32(&m.ConfirmWrites, 1)
	return true, nil
}

// GetBooking returns booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil
	}
	copy := *b
	return &copy
}

func (m *MockBookingRepository) snapshot() map[string]domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Booking, len(m.bookings))
	for k, v := range m.bookings {
		out[k] = *v
	}
	return out
}

func (m *MockBookingRepository) restore(s map[string]domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range s {
		*m.bookings[k] = v
	}
}

// ──────────────────────────────────────────────
// MOCK DESTINATION REPOSITORY
// ──────────────────────────────────────────────

// MockDestinationRepository is a mock implementation of DestinationRepository.
type MockDestinationRepository struct {
	mu           sync.RWMutex
	destinations map[string]*domain.Destination

	GetError error
}

// NewMockDestinationRepository creates a new mock destination repository.
func NewMockDestinationRepository() *MockDestinationRepository {
	return &MockDestinationRepository{
		destinations: make(map[string]*domain.Destination),
	}
}

// AddDestination adds a destination to the mock repository.
func (m *MockDestinationRepository) AddDestination(d *domain.Destination) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destinations[d.ID] = d
}

func (m *MockDestinationRepository) GetByID(ctx context.Context, id string) (*domain.Destination, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.destinations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor serializes units of work over the mock repositories and
// restores their previous state when fn fails.
type MockTransactor struct {
	mu       sync.Mutex
	payments *MockPaymentRepository
	bookings *MockBookingRepository

	CallCount     int32
	RollbackCount int32
}

// NewMockTransactor creates a transactor over the given mocks.
func NewMockTransactor(payments *MockPaymentRepository, bookings *MockBookingRepository) *MockTransactor {
	return &MockTransactor{payments: payments, bookings: bookings}
}

func (m *MockTransactor) InTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	atomic.AddInt32(&m.CallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	payments := m.payments.snapshot()
	bookings := m.bookings.snapshot()

	if err := fn(repository.TxRepositories{Payments: m.payments, Bookings: m.bookings}); err != nil {
		m.payments.restore(payments)
		m.bookings.restore(bookings)
		atomic.AddInt32(&m.RollbackCount, 1)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK CONFIRMATION CACHE
// ──────────────────────────────────────────────

// MockConfirmationCache is an in-memory ConfirmationCache.
type MockConfirmationCache struct {
	mu    sync.RWMutex
	items map[string]*domain.BookingConfirmation

	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	GetError error
	SetError error
}

// NewMockConfirmationCache creates a new mock cache.
func NewMockConfirmationCache() *MockConfirmationCache {
	return &MockConfirmationCache{items: make(map[string]*domain.BookingConfirmation)}
}

func (m *MockConfirmationCache) Get(ctx context.Context, paymentID string) (*domain.BookingConfirmation, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.items[paymentID]
	if !ok {
		return nil, nil
	}
	copy := *c
	return &copy, nil
}

func (m *MockConfirmationCache) Set(ctx context.Context, c *domain.BookingConfirmation) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *c
	m.items[c.PaymentID] = &copy
	return nil
}

func (m *MockConfirmationCache) Invalidate(ctx context.Context, paymentID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, paymentID)
	return nil
}

// Has reports whether paymentID is cached.
func (m *MockConfirmationCache) Has(paymentID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[paymentID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records booking confirmation notices.
type MockNotifier struct {
	CallCount int32

	// Error injection
	NotifyError error
}

func (m *MockNotifier) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	atomic.AddInt32(&m.CallCount, 1)
	return m.NotifyError
}

// ──────────────────────────────────────────────
// FIXTURE
// ──────────────────────────────────────────────

const (
	testSecret  = "s3cr3t"
	testOrderID = "order_ABC"
	testPayID   = "pay_XYZ"
)

// fixture holds one pending booking and its created payment.
type fixture struct {
	payments     *MockPaymentRepository
	bookings     *MockBookingRepository
	destinations *MockDestinationRepository
	tx           *MockTransactor
}

func newFixture() *fixture {
	payments := NewMockPaymentRepository()
	bookings := NewMockBookingRepository()
	destinations := NewMockDestinationRepository()
	payments.bookings = bookings

	destinations.AddDestination(&domain.Destination{ID: "dest-1", Name: "Kyoto", Country: "Japan"})
	bookings.AddBooking(&domain.Booking{
		ID:            "booking-1",
		Reference:     "TRV-20260301-0001",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+91 90000 00000",
		TotalAmount:   1250.50,
		Currency:      "INR",
		PaymentType:   "full",
		Status:        domain.BookingStatusPending,
		DestinationID: "dest-1",
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	payments.AddPayment(&domain.Payment{
		ID:             "payment-1",
		BookingID:      "booking-1",
		GatewayOrderID: testOrderID,
		Status:         domain.PaymentStatusCreated,
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})

	return &fixture{
		payments:     payments,
		bookings:     bookings,
		destinations: destinations,
		tx:           NewMockTransactor(payments, bookings),
	}
}
