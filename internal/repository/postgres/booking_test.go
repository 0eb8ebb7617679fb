package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel/internal/domain"
	"travel/internal/repository"
)

var bookingCols = []string{
	"id", "booking_reference", "customer_name", "customer_email", "customer_phone",
	"total_amount", "currency", "payment_type", "quick_payment_notes", "status",
	"destination_id", "payment_id", "confirmed_at", "created_at",
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	created := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(
			"booking-1", "TRV-0001", "Asha Rao", "asha@example.com", "+911234567890",
			45999.0, "INR", "full", nil, "pending",
			"dest-1", nil, nil, created,
		))

	b, err := repo.GetByID(context.Background(), "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "TRV-0001", b.Reference)
	assert.Equal(t, 45999.0, b.TotalAmount)
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Empty(t, b.PaymentID)
	assert.Empty(t, b.QuickPaymentNotes)
	assert.False(t, b.IsConfirmed())
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "booking-x")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestBookingRepository_Confirm(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $4 AND status = $5")).
		WithArgs(domain.BookingStatusConfirmed, "pay-row-1", now, "booking-1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.Confirm(context.Background(), "booking-1", "pay-row-1", now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Confirm(context.Background(), "booking-1", "pay-row-1", now)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDestinationRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDestinationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM destinations WHERE id = $1")).
		WithArgs("dest-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country"}).AddRow("dest-1", "Munnar", "India"))

	d, err := repo.GetByID(context.Background(), "dest-1")
	require.NoError(t, err)
	assert.Equal(t, "Munnar", d.Name)
	assert.Equal(t, "India", d.Country)

	mock.ExpectQuery("FROM destinations").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "dest-2")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestTxManager_CommitAndRollback(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	t.Run("commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.InTx(context.Background(), func(repos repository.TxRepositories) error {
			if _, err := repos.Payments.MarkCaptured(context.Background(), "order_ABC", "pay_XYZ", "sig", now); err != nil {
				return err
			}
			_, err := repos.Bookings.Confirm(context.Background(), "booking-1", "pay-row-1", now)
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings").WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err := tm.InTx(context.Background(), func(repos repository.TxRepositories) error {
			if _, err := repos.Payments.MarkCaptured(context.Background(), "order_ABC", "pay_XYZ", "sig", now); err != nil {
				return err
			}
			_, err := repos.Bookings.Confirm(context.Background(), "booking-1", "pay-row-1", now)
			return err
		})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
