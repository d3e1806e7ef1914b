package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_EmitsJSONWithServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "info", &buf)

	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "warn", &buf)

	l.Info("should not appear")
	assert.Zero(t, buf.Len())

	l.Warn("should appear")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-42")
	assert.Equal(t, "corr-42", CorrelationIDFromContext(ctx))
}

func TestCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}

func TestCustomer_RoundTrip(t *testing.T) {
	ctx := WithCustomer(context.Background(), "a@x.com")
	assert.Equal(t, "a@x.com", CustomerFromContext(ctx))
}

func TestWithContext_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("storefront", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-99")
	WithContext(ctx, base).Info("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-99", entry["correlation_id"])
}

func TestFromContext_DefaultWhenUnset(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestNewContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	stored := NewWithWriter("storefront", "info", &buf)

	ctx := NewContext(context.Background(), stored)
	assert.Same(t, stored, FromContext(ctx))
}
