package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func loggingHandler(buf *bytes.Buffer) http.Handler {
	l := slog.New(slog.NewJSONHandler(buf, nil))
	return RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	loggingHandler(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil))

	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
	assert.Contains(t, buf.String(), "http request")
	assert.Contains(t, buf.String(), "/api/v1/addresses")
}

func TestRequestLogging_EchoesProvidedCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "corr-7")
	w := httptest.NewRecorder()
	loggingHandler(&buf).ServeHTTP(w, req)

	assert.Equal(t, "corr-7", w.Header().Get("X-Correlation-ID"))
	assert.Contains(t, buf.String(), "corr-7")
}

func TestRequestLogging_SkipsProbeEndpoints(t *testing.T) {
	var buf bytes.Buffer
	h := loggingHandler(&buf)

	for _, target := range []string{"/health/live", "/health/ready", "/metrics"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Empty(t, buf.String())
}

func TestRequestLogging_IncludesQueryString(t *testing.T) {
	var buf bytes.Buffer
	loggingHandler(&buf).ServeHTTP(
		httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/api/v1/search?q=mug", nil),
	)

	assert.Contains(t, buf.String(), "q=mug")
}
