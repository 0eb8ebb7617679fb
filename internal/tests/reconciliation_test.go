package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"travel/internal/domain"
	"travel/internal/service"
)

func TestReconciliation_ReportsCapturedPaymentWithPendingBooking(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := f.payments.GetPayment(testOrderID)
	p.Status = domain.PaymentStatusCaptured
	p.GatewayPaymentID = testPayID
	svc := service.NewReconciliationService(f.payments, zerolog.Nop())

	found, err := svc.Report(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(found) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(found))
	}
	if found[0].BookingReference != "TRV-20260301-0001" {
		t.Errorf("unexpected reference %s", found[0].BookingReference)
	}
	if found[0].BookingStatus != domain.BookingStatusPending {
		t.Errorf("expected pending, got %s", found[0].BookingStatus)
	}
	if got := f.bookings.GetBooking("booking-1").Status; got != domain.BookingStatusPending {
		t.Errorf("report must not repair the booking, got %s", got)
	}
}

func TestReconciliation_CleanStoreReportsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture()
	confirmFixture(f)
	svc := service.NewReconciliationService(f.payments, zerolog.Nop())

	found, err := svc.Report(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no discrepancies, got %d", len(found))
	}
}

func TestReconciliation_StoreFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.payments.ListError = errInjected
	svc := service.NewReconciliationService(f.payments, zerolog.Nop())

	if _, err := svc.Report(context.Background(), 10); !errors.Is(err, service.ErrStore) {
		t.Errorf("expected ErrStore, got %v", err)
	}
}
