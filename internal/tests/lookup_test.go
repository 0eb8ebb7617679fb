package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"travel/internal/domain"
	"travel/internal/service"
)

func newLookupService(f *fixture, cache service.ConfirmationCache) *service.BookingLookupService {
	return service.NewBookingLookupService(f.payments, f.bookings, f.destinations, cache, zerolog.Nop())
}

// confirmFixture puts the fixture into the state a successful verification leaves behind.
func confirmFixture(f *fixture) {
	p := f.payments.GetPayment(testOrderID)
	p.Status = domain.PaymentStatusCaptured
	p.GatewayPaymentID = testPayID
	p.CapturedAt = time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	b := f.bookings.GetBooking("booking-1")
	b.Status = domain.BookingStatusConfirmed
	b.PaymentID = p.ID
	f.bookings.AddBooking(b)
}

func TestFindByPaymentID_ReturnsConfirmedBooking(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	svc := newLookupService(f, nil)

	got, err := svc.FindByPaymentID(context.Background(), testPayID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.BookingReference != "TRV-20260301-0001" {
		t.Errorf("expected reference TRV-20260301-0001, got %s", got.BookingReference)
	}
	if got.DestinationName != "Kyoto" || got.DestinationCountry != "Japan" {
		t.Errorf("unexpected destination %s/%s", got.DestinationName, got.DestinationCountry)
	}
	if got.PaymentID != testPayID {
		t.Errorf("expected payment id %s, got %s", testPayID, got.PaymentID)
	}
	if got.TotalAmount != 1250.50 {
		t.Errorf("expected total 1250.50, got %v", got.TotalAmount)
	}
}

func TestFindByPaymentID_UncapturedPaymentIsRejected(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := f.payments.GetPayment(testOrderID)
	p.GatewayPaymentID = testPayID // status stays created
	svc := newLookupService(f, nil)

	got, err := svc.FindByPaymentID(context.Background(), testPayID)

	if !errors.Is(err, service.ErrPaymentNotConfirmed) {
		t.Errorf("expected ErrPaymentNotConfirmed, got %v", err)
	}
	if got != nil {
		t.Error("booking details must not be returned for an uncaptured payment")
	}
}

func TestFindByPaymentID_PendingBookingIsRejected(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := f.payments.GetPayment(testOrderID)
	p.Status = domain.PaymentStatusCaptured
	p.GatewayPaymentID = testPayID
	svc := newLookupService(f, nil)

	got, err := svc.FindByPaymentID(context.Background(), testPayID)

	if !errors.Is(err, service.ErrBookingNotConfirmed) {
		t.Errorf("expected ErrBookingNotConfirmed, got %v", err)
	}
	if got != nil {
		t.Error("booking details must not be returned for a pending booking")
	}
}

func TestFindByPaymentID_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture()
	svc := newLookupService(f, nil)

	_, err := svc.FindByPaymentID(context.Background(), "pay_unknown")

	if !errors.Is(err, service.ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestFindByPaymentID_MissingBooking(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	f.payments.GetPayment(testOrderID).BookingID = "booking-gone"
	svc := newLookupService(f, nil)

	_, err := svc.FindByPaymentID(context.Background(), testPayID)

	if !errors.Is(err, service.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestFindByPaymentID_MissingDestinationLeavesFieldsEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	b := f.bookings.GetBooking("booking-1")
	b.DestinationID = "dest-gone"
	f.bookings.AddBooking(b)
	svc := newLookupService(f, nil)

	got, err := svc.FindByPaymentID(context.Background(), testPayID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DestinationName != "" || got.DestinationCountry != "" {
		t.Errorf("expected empty destination, got %s/%s", got.DestinationName, got.DestinationCountry)
	}
}

func TestFindByPaymentID_RequiresPaymentID(t *testing.T) {
	t.Parallel()
	f := newFixture()
	svc := newLookupService(f, nil)

	for _, id := range []string{"", "  "} {
		if _, err := svc.FindByPaymentID(context.Background(), id); !errors.Is(err, service.ErrMissingPaymentID) {
			t.Errorf("expected ErrMissingPaymentID for %q, got %v", id, err)
		}
	}
}

func TestFindByPaymentID_StoreFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	f.destinations.GetError = errInjected
	svc := newLookupService(f, nil)

	_, err := svc.FindByPaymentID(context.Background(), testPayID)

	if !errors.Is(err, service.ErrStore) {
		t.Errorf("expected ErrStore, got %v", err)
	}
}

func TestFindByPaymentID_CachesConfirmedResult(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	cache := NewMockConfirmationCache()
	svc := newLookupService(f, cache)

	if _, err := svc.FindByPaymentID(context.Background(), testPayID); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Fatalf("expected result to be cached, got %d sets", cache.SetCallCount)
	}

	// Served from cache while the payment store is down.
	f.payments.GetError = errInjected
	got, err := svc.FindByPaymentID(context.Background(), testPayID)
	if err != nil {
		t.Fatalf("cached lookup failed: %v", err)
	}
	if got.BookingReference != "TRV-20260301-0001" {
		t.Errorf("unexpected cached reference %s", got.BookingReference)
	}
}

func TestFindByPaymentID_RejectionsAreNotCached(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := f.payments.GetPayment(testOrderID)
	p.Status = domain.PaymentStatusCaptured
	p.GatewayPaymentID = testPayID
	cache := NewMockConfirmationCache()
	svc := newLookupService(f, cache)

	if _, err := svc.FindByPaymentID(context.Background(), testPayID); !errors.Is(err, service.ErrBookingNotConfirmed) {
		t.Fatalf("expected ErrBookingNotConfirmed, got %v", err)
	}
	if cache.SetCallCount != 0 {
		t.Errorf("expected nothing cached, got %d sets", cache.SetCallCount)
	}
}

func TestFindByPaymentID_CacheErrorsAreIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	cache := NewMockConfirmationCache()
	cache.GetError = errInjected
	cache.SetError = errInjected
	svc := newLookupService(f, cache)

	if _, err := svc.FindByPaymentID(context.Background(), testPayID); err != nil {
		t.Errorf("cache failures must not fail the lookup, got %v", err)
	}
}

func TestVerifyThenLookup(t *testing.T) {
	t.Parallel()
	f := newFixture()
	lookup := newLookupService(f, nil)

	if _, err := lookup.FindByPaymentID(context.Background(), testPayID); !errors.Is(err, service.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound before verification, got %v", err)
	}

	if _, err := newConfirmationService(f).VerifyAndConfirm(context.Background(), validRequest()); err != nil {
		t.Fatalf("verification failed: %v", err)
	}

	got, err := lookup.FindByPaymentID(context.Background(), testPayID)
	if err != nil {
		t.Fatalf("lookup after verification failed: %v", err)
	}
	if got.BookingReference != "TRV-20260301-0001" {
		t.Errorf("unexpected reference %s", got.BookingReference)
	}
}

func TestFindByPaymentID_CachedEntryRechecksBookingStatus(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	cache := NewMockConfirmationCache()
	svc := newLookupService(f, cache)

	if _, err := svc.FindByPaymentID(context.Background(), testPayID); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if !cache.Has(testPayID) {
		t.Fatal("expected confirmation to be cached")
	}

	b := f.bookings.GetBooking("booking-1")
	b.Status = domain.BookingStatusCancelled
	f.bookings.AddBooking(b)

	got, err := svc.FindByPaymentID(context.Background(), testPayID)

	if !errors.Is(err, service.ErrBookingNotConfirmed) {
		t.Errorf("expected ErrBookingNotConfirmed, got %v", err)
	}
	if got != nil {
		t.Errorf("cancelled booking reported as confirmed: %s", got.BookingReference)
	}
	if cache.InvalidateCallCount != 1 {
		t.Errorf("expected 1 invalidate, got %d", cache.InvalidateCallCount)
	}
	if cache.Has(testPayID) {
		t.Error("stale entry still cached")
	}
}
