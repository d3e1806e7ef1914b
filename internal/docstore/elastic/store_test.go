package elastic

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeCluster stands in for Elasticsearch just far enough to serve the
// index existence check and index creation during New.
func newFakeCluster(t *testing.T, indexExists bool) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		switch r.Method {
		case http.MethodHead:
			if indexExists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case http.MethodPut:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), requests...)
	}
}

func TestNewReusesExistingIndex(t *testing.T) {
	srv, recorded := newFakeCluster(t, true)

	store, err := New([]string{srv.URL}, "", testLogger())
	require.NoError(t, err)
	require.NotNil(t, store)

	reqs := recorded()
	assert.Contains(t, reqs, "HEAD /"+DefaultIndexName)
	for _, r := range reqs {
		assert.NotContains(t, r, "PUT ")
	}
}

func TestNewCreatesMissingIndex(t *testing.T) {
	srv, recorded := newFakeCluster(t, false)

	_, err := New([]string{srv.URL}, "addresses_test", testLogger())
	require.NoError(t, err)

	reqs := recorded()
	assert.Contains(t, reqs, "HEAD /addresses_test")
	assert.Contains(t, reqs, "PUT /addresses_test")
}
