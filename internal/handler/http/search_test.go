package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchmemory "github.com/oakline/storefront/internal/search/memory"

	"github.com/oakline/storefront/internal/search"
	"github.com/oakline/storefront/internal/service"
)

func newSearchRouter() http.Handler {
	svc := service.NewSearchService(searchmemory.New(), nil, testLogger())
	h := NewSearchHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Get("/", h.Search)
		r.Post("/index", h.IndexProduct)
		r.Post("/index/bulk", h.BulkIndexProducts)
		r.Delete("/index/{id}", h.DeleteProduct)
	})
	return r
}

func indexProduct(t *testing.T, router http.Handler, body string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/index", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
}

func doSearch(t *testing.T, router http.Handler, query string) search.Result {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search"+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data search.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Data
}

func TestSearch_MatchesNameAndDescription(t *testing.T) {
	router := newSearchRouter()

	indexProduct(t, router, `{"id":"p1","name":"Ceramic Mug","description":"Hand glazed stoneware","price":120,"in_stock":true}`)
	indexProduct(t, router, `{"id":"p2","name":"Linen Tote","description":"Natural linen bag with mug print","price":90,"in_stock":true}`)

	result := doSearch(t, router, "?q=mug")
	assert.Equal(t, 2, result.Total)

	result = doSearch(t, router, "?q=stoneware")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "p1", result.Products[0].ID)
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	router := newSearchRouter()

	indexProduct(t, router, `{"id":"p1","name":"Mug","price":10}`)

	result := doSearch(t, router, "")
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, search.DefaultPerPage, result.PerPage)
}

func TestSearch_InStockFilter(t *testing.T) {
	router := newSearchRouter()

	indexProduct(t, router, `{"id":"p1","name":"Mug A","in_stock":true}`)
	indexProduct(t, router, `{"id":"p2","name":"Mug B","in_stock":false}`)

	result := doSearch(t, router, "?q=mug&in_stock=true")
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "p1", result.Products[0].ID)
}

func TestIndexProduct_ValidationError(t *testing.T) {
	router := newSearchRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/index", strings.NewReader(`{"name":"No ID"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkIndex(t *testing.T) {
	router := newSearchRouter()

	body := `{"products":[{"id":"p1","name":"Mug"},{"id":"p2","name":"Tote"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/index/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	result := doSearch(t, router, "")
	assert.Equal(t, 2, result.Total)
}

func TestBulkIndex_EmptyProducts(t *testing.T) {
	router := newSearchRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/index/bulk", strings.NewReader(`{"products":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	router := newSearchRouter()

	indexProduct(t, router, `{"id":"p1","name":"Mug"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/search/index/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	result := doSearch(t, router, "?q=mug")
	assert.Zero(t, result.Total)
}
