// Package docstore abstracts the address document store. The backing store
// offers single-document create, id-only queries, and single-document partial
// updates; reads may lag recent writes. There are no multi-document
// transactions, which is why default-address maintenance is a compensating
// protocol rather than an atomic operation.
package docstore

import (
	"context"

	"github.com/oakline/storefront/internal/domain"
)

// Store defines the operations the address book needs from the document
// store. Implementations may use Elasticsearch or in-memory storage.
type Store interface {
	// Create persists a new address document and returns the stored copy
	// with its assigned id.
	Create(ctx context.Context, address *domain.Address) (*domain.Address, error)

	// Get fetches one address document by id.
	Get(ctx context.Context, id string) (*domain.Address, error)

	// ListByEmail returns every address document for a customer identity.
	ListByEmail(ctx context.Context, email string) ([]domain.Address, error)

	// QueryDefaultIDs returns the ids of documents for the given identity
	// that currently hold the default flag, excluding excludeID. The read
	// reflects the store's current view and may miss writes committed by
	// concurrent requests.
	QueryDefaultIDs(ctx context.Context, email, excludeID string) ([]string, error)

	// ClearDefault issues a partial update setting default=false on one
	// document.
	ClearDefault(ctx context.Context, id string) error
}
