package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakline/storefront/internal/domain"
	"github.com/oakline/storefront/internal/search"
	"github.com/oakline/storefront/pkg/slug"
)

const searchCachePrefix = "search:"

// searchCacheTTL is short: the catalog changes rarely but results should not
// outlive a reindex by much.
const searchCacheTTL = 60 * time.Second

// SearchService implements the business logic for catalog search. Results
// are cached in Redis best-effort; a missing or failing cache only costs a
// trip to the engine.
type SearchService struct {
	engine search.Engine
	cache  *redis.Client
	logger *slog.Logger
}

// NewSearchService creates a new search service. The cache client may be
// nil to disable result caching.
func NewSearchService(eng search.Engine, cache *redis.Client, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine: eng,
		cache:  cache,
		logger: logger,
	}
}

// IndexProductInput holds the parameters for indexing a product.
type IndexProductInput struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	InStock     bool    `json:"in_stock"`
}

func (in *IndexProductInput) toProduct() domain.Product {
	// Normalize whatever the catalog pipeline sent; a missing slug is
	// derived from the product name.
	s := in.Slug
	if s == "" {
		s = in.Name
	}
	return domain.Product{
		ID:          in.ID,
		Slug:        slug.Make(s),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		InStock:     in.InStock,
		CreatedAt:   time.Now().UTC(),
	}
}

// IndexProduct indexes a single product in the search engine.
func (s *SearchService) IndexProduct(ctx context.Context, input *IndexProductInput) error {
	if input.ID == "" {
		return fmt.Errorf("index product: id is required")
	}
	if input.Name == "" {
		return fmt.Errorf("index product: name is required")
	}

	product := input.toProduct()
	if err := s.engine.Index(ctx, &product); err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	s.logger.InfoContext(ctx, "product indexed",
		slog.String("product_id", input.ID),
		slog.String("name", input.Name),
	)

	return nil
}

// BulkIndexProducts indexes a batch of products in the search engine.
func (s *SearchService) BulkIndexProducts(ctx context.Context, inputs []IndexProductInput) error {
	products := make([]domain.Product, 0, len(inputs))
	for i := range inputs {
		if inputs[i].ID == "" || inputs[i].Name == "" {
			return fmt.Errorf("bulk index: every product needs an id and a name")
		}
		products = append(products, inputs[i].toProduct())
	}

	if err := s.engine.BulkIndex(ctx, products); err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}

	s.logger.InfoContext(ctx, "products bulk indexed", slog.Int("count", len(products)))
	return nil
}

// DeleteProduct removes a product from the search index.
func (s *SearchService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete product: id is required")
	}

	if err := s.engine.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted from index", slog.String("product_id", id))
	return nil
}

// Search executes a catalog search, consulting the cache first.
func (s *SearchService) Search(ctx context.Context, query *search.Query) (*search.Result, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PerPage <= 0 {
		query.PerPage = search.DefaultPerPage
	}
	if query.PerPage > search.MaxPerPage {
		query.PerPage = search.MaxPerPage
	}

	key := searchCacheKey(query)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	result, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.cacheSet(ctx, key, result)

	s.logger.DebugContext(ctx, "search executed",
		slog.String("term", query.Term),
		slog.Int("total", result.Total),
		slog.Int64("took_ms", result.TookMs),
	)

	return result, nil
}

func (s *SearchService) cacheGet(ctx context.Context, key string) *search.Result {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.DebugContext(ctx, "search cache get failed", slog.String("error", err.Error()))
		}
		return nil
	}

	var result search.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *SearchService) cacheSet(ctx context.Context, key string, result *search.Result) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, searchCacheTTL).Err(); err != nil {
		s.logger.DebugContext(ctx, "search cache set failed", slog.String("error", err.Error()))
	}
}

// searchCacheKey derives a stable key from the normalized query.
func searchCacheKey(query *search.Query) string {
	data, _ := json.Marshal(query)
	sum := sha256.Sum256(data)
	return searchCachePrefix + hex.EncodeToString(sum[:16])
}
