package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/docstore"
	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/event"
)

// AddressService implements the address book, including default-address
// maintenance. The store offers no multi-document transactions, so promoting
// a new default is a compensating sequence: create the document, then demote
// every other default the store currently reports for the same identity.
// Demotion failures are logged, never surfaced: once the creation committed,
// the submission succeeds.
type AddressService struct {
	store    docstore.Store
	producer *event.Producer
	logger   *slog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(store docstore.Store, producer *event.Producer, logger *slog.Logger) *AddressService {
	return &AddressService{
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// CreateAddressInput holds the parameters for an address submission. Email
// identifies the customer; every other field is copied through as given.
type CreateAddressInput struct {
	Name    string
	Email   string
	Street  string
	City    string
	State   string
	Zip     string
	Default bool
}

// CreateAddress persists a new address and, when the submission requests
// default status, demotes the identity's other defaults. Only validation
// and creation failures reach the caller; everything after the document is
// committed is best-effort.
func (s *AddressService) CreateAddress(ctx context.Context, input *CreateAddressInput) (*domain.Address, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	address := &domain.Address{
		Name:      input.Name,
		Email:     input.Email,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		Zip:       input.Zip,
		Default:   input.Default,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.store.Create(ctx, address)
	if err != nil {
		return nil, apperrors.Wrap(err, "create address")
	}

	if err := s.producer.PublishAddressCreated(ctx, created); err != nil {
		s.logger.WarnContext(ctx, "failed to publish address.created event",
			slog.String("address_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	if input.Default {
		s.demoteOtherDefaults(ctx, created)
	}

	s.logger.InfoContext(ctx, "address created",
		slog.String("address_id", created.ID),
		slog.String("email", created.Email),
		slog.Bool("default", created.Default),
	)

	return created, nil
}

// demoteOtherDefaults finds the identity's other default documents and
// clears their flags concurrently. The candidate read reflects the store's
// current view; two racing submissions can each miss the other's document
// and leave two defaults standing until the next promotion. That window is
// accepted rather than locked away.
func (s *AddressService) demoteOtherDefaults(ctx context.Context, created *domain.Address) {
	candidates, err := s.store.QueryDefaultIDs(ctx, created.Email, created.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query default addresses",
			slog.String("email", created.Email),
			slog.String("error", err.Error()),
		)
		return
	}

	demoted := make([]string, 0, len(candidates))
	failed := 0

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, id := range candidates {
		// A stale index can hand back the document we just promoted.
		// Demoting it would undo the submission's explicit request.
		if id == created.ID {
			continue
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := s.store.ClearDefault(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.ErrorContext(ctx, "failed to demote default address",
					slog.String("address_id", id),
					slog.String("email", created.Email),
					slog.String("error", err.Error()),
				)
				return
			}
			demoted = append(demoted, id)
		}(id)
	}
	wg.Wait()

	if len(demoted) > 0 || failed > 0 {
		if err := s.producer.PublishAddressDefaultChanged(ctx, created.Email, created.ID, demoted, failed); err != nil {
			s.logger.WarnContext(ctx, "failed to publish address.default_changed event",
				slog.String("address_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// ListAddresses returns every address saved for a customer identity.
func (s *AddressService) ListAddresses(ctx context.Context, email string) ([]domain.Address, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	addresses, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Wrap(err, "list addresses")
	}
	return addresses, nil
}

// GetAddress fetches one address by id.
func (s *AddressService) GetAddress(ctx context.Context, id string) (*domain.Address, error) {
	address, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return address, nil
}
