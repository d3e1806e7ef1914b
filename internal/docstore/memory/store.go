// Package memory provides an in-memory address store used by tests and
// local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/domain"
)

// Store is an in-memory implementation of docstore.Store. Thread-safe via
// sync.RWMutex.
type Store struct {
	mu        sync.RWMutex
	addresses map[string]domain.Address
}

// New creates a new in-memory address store.
func New() *Store {
	return &Store{
		addresses: make(map[string]domain.Address),
	}
}

// Create stores a new address document under a generated id.
func (s *Store) Create(_ context.Context, address *domain.Address) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *address
	stored.ID = uuid.New().String()
	s.addresses[stored.ID] = stored
	return &stored, nil
}

// Get fetches one address document by id.
func (s *Store) Get(_ context.Context, id string) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.addresses[id]
	if !ok {
		return nil, apperrors.NotFound("address", id)
	}
	return &addr, nil
}

// ListByEmail returns every address document for a customer identity,
// newest first.
func (s *Store) ListByEmail(_ context.Context, email string) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Address, 0)
	for _, addr := range s.addresses {
		if addr.Email == email {
			result = append(result, addr)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// QueryDefaultIDs returns ids of the identity's current defaults, excluding
// excludeID.
func (s *Store) QueryDefaultIDs(_ context.Context, email, excludeID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, addr := range s.addresses {
		if addr.Email == email && addr.Default && addr.ID != excludeID {
			ids = append(ids, addr.ID)
		}
	}
	return ids, nil
}

// ClearDefault sets default=false on one document. Clearing an unknown id
// is a no-op, matching a patch against a document deleted underneath us.
func (s *Store) ClearDefault(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr, ok := s.addresses[id]
	if !ok {
		return nil
	}
	addr.Default = false
	s.addresses[id] = addr
	return nil
}
