// Package memory provides an in-memory search engine used by tests and
// local development. Matching is simple substring search on name and
// description.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/search"
)

// Engine is an in-memory implementation of search.Engine. Thread-safe via
// sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		products: make(map[string]domain.Product),
	}
}

// Index adds or updates a single product in the in-memory index.
func (e *Engine) Index(_ context.Context, product *domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products[product.ID] = *product
	return nil
}

// Delete removes a product from the in-memory index by its ID.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.products, id)
	return nil
}

// Search executes a query against the in-memory index.
func (e *Engine) Search(_ context.Context, query *search.Query) (*search.Result, error) {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	term := strings.ToLower(query.Term)
	matched := make([]domain.Product, 0)
	for _, p := range e.products {
		if !matches(p, query, term) {
			continue
		}
		matched = append(matched, p)
	}

	// Newest first keeps results stable across runs.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, perPage := normalizePage(query)

	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	return &search.Result{
		Products: matched[offset:end],
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}

// BulkIndex adds or updates multiple products in the in-memory index.
func (e *Engine) BulkIndex(_ context.Context, products []domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range products {
		e.products[products[i].ID] = products[i]
	}
	return nil
}

func matches(p domain.Product, query *search.Query, term string) bool {
	if term != "" {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		if !strings.Contains(name, term) && !strings.Contains(desc, term) {
			return false
		}
	}
	if query.InStock != nil && p.InStock != *query.InStock {
		return false
	}
	return true
}

func normalizePage(query *search.Query) (page, perPage int) {
	page = query.Page
	if page < 1 {
		page = 1
	}
	perPage = query.PerPage
	if perPage < 1 {
		perPage = search.DefaultPerPage
	}
	if perPage > search.MaxPerPage {
		perPage = search.MaxPerPage
	}
	return page, perPage
}
