package postgres

import (
	"context"
	"database/sql"
	"errors"

	"travel/internal/domain"
	"travel/internal/repository"
)

// DestinationRepository is a PostgreSQL implementation of repository.DestinationRepository.
type DestinationRepository struct {
	q Querier
}

// NewDestinationRepository creates a new PostgreSQL destination repository.
func NewDestinationRepository(db *sql.DB) *DestinationRepository {
	return &DestinationRepository{q: db}
}

// GetByID retrieves a destination by ID.
func (r *DestinationRepository) GetByID(ctx context.Context, id string) (*domain.Destination, error) {
	query := `SELECT id, name, country FROM destinations WHERE id = $1`

	var d domain.Destination
	err := r.q.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &d, nil
}

var _ repository.DestinationRepository = (*DestinationRepository)(nil)
