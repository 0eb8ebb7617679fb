package postgres

import (
	"context"
	"database/sql"

	"travel/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// TxManager is a PostgreSQL implementation of repository.Transactor.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// InTx runs fn with transaction-scoped repositories.
func (m *TxManager) InTx(ctx context.Context, fn func(repos repository.TxRepositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(repository.TxRepositories{
		Payments: NewPaymentRepositoryWithTx(tx),
		Bookings: NewBookingRepositoryWithTx(tx),
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

var _ repository.Transactor = (*TxManager)(nil)
