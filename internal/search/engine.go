// Package search provides catalog search over indexed products.
package search

import (
	"context"

	"github.com/oakline/storefront/internal/domain"
)

// Default and maximum page sizes for search results.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Query describes one catalog search request.
type Query struct {
	Term    string `json:"q"`
	InStock *bool  `json:"in_stock,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// Result holds one page of matching products.
type Result struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
	TookMs   int64            `json:"took_ms"`
}

// Engine defines the interface for indexing and searching products.
// Implementations may use Elasticsearch, in-memory storage, or other
// backends.
type Engine interface {
	// Index adds or updates a single product in the search index.
	Index(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the search index by its ID.
	Delete(ctx context.Context, id string) error

	// Search executes a query matching product names and descriptions.
	Search(ctx context.Context, query *Query) (*Result, error)

	// BulkIndex adds or updates multiple products in the search index.
	BulkIndex(ctx context.Context, products []domain.Product) error
}
