// Package elastic implements the address document store on Elasticsearch.
// Documents are written without forced refresh, so queries observe the
// index's near-real-time view and may briefly lag recent writes.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	apperrors "github.com/oakline/storefront/pkg/errors"

	"github.com/oakline/storefront/internal/domain"
)

// DefaultIndexName is the index used when none is configured.
const DefaultIndexName = "storefront_addresses"

// Store is an Elasticsearch-backed implementation of docstore.Store.
type Store struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source domain.Address `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esGetResponse struct {
	ID     string         `json:"_id"`
	Found  bool           `json:"found"`
	Source domain.Address `json:"_source"`
}

type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a store connected to the given addresses and ensures the
// index exists.
func New(addrs []string, indexName string, logger *slog.Logger) (*Store, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addrs})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	s := &Store{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}
	if err := s.ensureIndex(); err != nil {
		return nil, fmt.Errorf("elasticsearch: ensure index: %w", err)
	}
	return s, nil
}

// Ping checks whether the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

func (s *Store) ensureIndex() error {
	exists, err := s.client.Indices.Exists([]string{s.indexName})
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	found := exists.StatusCode == 200
	_ = exists.Body.Close()
	if found {
		return nil
	}

	res, err := s.client.Indices.Create(
		s.indexName,
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return s.decodeError(res.Body, res.Status(), "create index")
	}

	s.logger.Info("address index created", "index", s.indexName)
	return nil
}

// Create persists a new address document under a generated id.
func (s *Store) Create(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	stored := *address
	stored.ID = uuid.New().String()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch create: marshal address: %w", err)
	}

	res, err := s.client.Index(
		s.indexName,
		bytes.NewReader(data),
		s.client.Index.WithDocumentID(stored.ID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch create: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, s.decodeError(res.Body, res.Status(), "elasticsearch create")
	}

	s.logger.Debug("address document created", "id", stored.ID)
	return &stored, nil
}

// Get fetches one address document by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Address, error) {
	res, err := s.client.Get(s.indexName, id, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, apperrors.NotFound("address", id)
	}
	if res.IsError() {
		return nil, s.decodeError(res.Body, res.Status(), "elasticsearch get")
	}

	var out esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("elasticsearch get: decode response: %w", err)
	}
	if !out.Found {
		return nil, apperrors.NotFound("address", id)
	}
	addr := out.Source
	addr.ID = out.ID
	return &addr, nil
}

// ListByEmail returns every address document for a customer identity,
// newest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]domain.Address, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"email": email},
		},
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": "desc"}},
		},
		"size": 100,
	}

	hits, err := s.search(ctx, query, "elasticsearch list")
	if err != nil {
		return nil, err
	}

	result := make([]domain.Address, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		addr := hit.Source
		addr.ID = hit.ID
		result = append(result, addr)
	}
	return result, nil
}

// QueryDefaultIDs returns ids of the identity's current defaults, excluding
// excludeID. Only ids are fetched, not full documents.
func (s *Store) QueryDefaultIDs(ctx context.Context, email, excludeID string) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"email": email}},
					{"term": map[string]any{"default": true}},
				},
				"must_not": []map[string]any{
					{"ids": map[string]any{"values": []string{excludeID}}},
				},
			},
		},
		"_source": false,
		"size":    100,
	}

	hits, err := s.search(ctx, query, "elasticsearch query defaults")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// ClearDefault issues a partial update setting default=false. A 404 is
// treated as a no-op.
func (s *Store) ClearDefault(ctx context.Context, id string) error {
	body := strings.NewReader(`{"doc":{"default":false}}`)

	res, err := s.client.Update(
		s.indexName,
		id,
		body,
		s.client.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch clear default: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil
	}
	if res.IsError() {
		return s.decodeError(res.Body, res.Status(), "elasticsearch clear default")
	}

	s.logger.Debug("address demoted", "id", id)
	return nil
}

func (s *Store) search(ctx context.Context, query map[string]any, op string) (*esSearchResponse, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal query: %w", op, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithIndex(s.indexName),
		s.client.Search.WithBody(bytes.NewReader(data)),
		s.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, s.decodeError(res.Body, res.Status(), op)
	}

	var out esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &out, nil
}

func (s *Store) decodeError(body io.Reader, status, op string) error {
	var errResp esErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: unexpected status %s", op, status)
}
