// Package main implements a standalone seed tool that fills the storefront
// product index with realistic demo products so search can be exercised
// without a live checkout pipeline.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oakline/storefront/internal/domain"
	searchelastic "github.com/oakline/storefront/internal/search/elastic"
	"github.com/oakline/storefront/pkg/logger"
	"github.com/oakline/storefront/pkg/slug"
)

const (
	defaultTotal = 2000
	batchSize    = 250
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// deterministicID produces a stable UUID-shaped string from an index so that
// re-runs overwrite the same documents instead of piling up duplicates.
func deterministicID(index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("storefront-product:%d", index)))
	hex := fmt.Sprintf("%x", h[:16])
	return fmt.Sprintf("%s-%s-4%s-%x%s-%s",
		hex[0:8],
		hex[8:12],
		hex[13:16],
		0x8|(h[8]&0x3),
		hex[17:20],
		hex[20:32],
	)
}

var collections = []string{
	"Oakline", "Harbor", "Meadow", "Juniper", "Clay & Kiln", "Northlight",
}

var categories = []struct {
	Name     string
	MinPrice float64
	MaxPrice float64
}{
	{"Mug", 24, 59},
	{"Tumbler", 29, 69},
	{"Serving Bowl", 79, 189},
	{"Dinner Plate", 49, 129},
	{"Vase", 99, 349},
	{"Throw Blanket", 199, 499},
	{"Cushion Cover", 59, 149},
	{"Table Runner", 89, 219},
	{"Candle Holder", 39, 119},
	{"Tote Bag", 69, 159},
}

var adjectives = []string{
	"Speckled", "Matte", "Glazed", "Woven", "Hand-Thrown", "Linen",
	"Stoneware", "Ribbed", "Two-Tone", "Textured",
}

var descriptions = []string{
	"Made in small batches, each piece has slight variations in glaze and tone.",
	"Dishwasher safe and built for everyday use.",
	"A quiet staple that pairs with the rest of the collection.",
	"Finished by hand, so no two are exactly alike.",
	"Durable enough for daily rotation, nice enough for guests.",
}

func buildProduct(rng *rand.Rand, index int) domain.Product {
	cat := categories[rng.Intn(len(categories))]
	adj := adjectives[rng.Intn(len(adjectives))]
	col := collections[rng.Intn(len(collections))]

	name := fmt.Sprintf("%s %s %s", col, adj, cat.Name)
	productSlug := slug.Make(name) + "-" + strconv.Itoa(index)

	price := cat.MinPrice + rng.Float64()*(cat.MaxPrice-cat.MinPrice)
	price = float64(int(price)) + 0.90

	return domain.Product{
		ID:          deterministicID(index),
		Slug:        productSlug,
		Name:        name,
		Description: fmt.Sprintf("%s %s from the %s collection. %s",
			strings.ToLower(adj), strings.ToLower(cat.Name), col,
			descriptions[rng.Intn(len(descriptions))]),
		Price:     price,
		ImageURL:  fmt.Sprintf("https://cdn.oakline.example/products/%s.jpg", productSlug),
		InStock:   rng.Intn(10) > 0,
		CreatedAt: time.Now().UTC().Add(-time.Duration(rng.Intn(365*24)) * time.Hour),
	}
}

func main() {
	log := logger.New("storefront-seed", getEnv("LOG_LEVEL", "info"))

	total := defaultTotal
	if v := os.Getenv("SEED_TOTAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Error("invalid SEED_TOTAL", slog.String("value", v))
			os.Exit(1)
		}
		total = n
	}

	addrs := strings.Split(getEnv("ELASTICSEARCH_ADDRS", "http://localhost:9200"), ",")
	engine, err := searchelastic.New(addrs, searchelastic.DefaultIndexName, log)
	if err != nil {
		log.Error("init search engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Fixed seed keeps names stable across runs alongside the stable IDs.
	rng := rand.New(rand.NewSource(42))
	start := time.Now()

	for offset := 0; offset < total; offset += batchSize {
		n := batchSize
		if offset+n > total {
			n = total - offset
		}
		batch := make([]domain.Product, 0, n)
		for i := 0; i < n; i++ {
			batch = append(batch, buildProduct(rng, offset+i))
		}
		if err := engine.BulkIndex(ctx, batch); err != nil {
			log.Error("bulk index batch failed",
				slog.Int("offset", offset),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		log.Info("batch indexed", slog.Int("offset", offset), slog.Int("count", n))
	}

	log.Info("seed complete",
		slog.Int("products", total),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
}
