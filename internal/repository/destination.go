package repository

import (
	"context"

	"travel/internal/domain"
)

// DestinationRepository defines read access to destinations.
type DestinationRepository interface {
	// GetByID retrieves a destination by ID.
	GetByID(ctx context.Context, id string) (*domain.Destination, error)
}
