package repository

import (
	"context"

	"github.com/oakline/storefront/internal/domain"
)

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	CustomerID *string
	Status     *string
	Page       int
	PerPage    int
}

// OrderRepository defines the interface for the order read model.
type OrderRepository interface {
	// Create inserts an order and its items atomically. Orders arrive from
	// the checkout pipeline; this service only ingests and reads them.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by id, including its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
}
